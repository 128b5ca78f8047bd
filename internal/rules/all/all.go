// Package all imports all rule packages to register them.
// Import this package with a blank identifier to enable all rules:
//
//	import _ "github.com/fortlab/flint/internal/rules/all"
package all

import (
	// Import all rule packages to trigger their init() registration
	_ "github.com/fortlab/flint/internal/rules/correctness"
	_ "github.com/fortlab/flint/internal/rules/errorrules"
	_ "github.com/fortlab/flint/internal/rules/modules"
	_ "github.com/fortlab/flint/internal/rules/obsolescent"
	_ "github.com/fortlab/flint/internal/rules/portability"
	_ "github.com/fortlab/flint/internal/rules/style"
	_ "github.com/fortlab/flint/internal/rules/typing"
)
