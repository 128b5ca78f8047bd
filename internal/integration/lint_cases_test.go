package integration

import "testing"

func TestLintCases(t *testing.T) {
	cases := []lintCase{
		{
			name: "clean-program",
			files: map[string]string{
				"clean.f90": "program p\n" +
					"  implicit none\n" +
					"  write(*, *) 'ok'\n" +
					"end program p\n",
			},
			target: "clean.f90",
			want:   nil,
		},
		{
			name: "trailing-whitespace-and-missing-newline",
			files: map[string]string{
				"style.f90": "program p\n" +
					"  implicit none\n" +
					"end program p   ",
			},
			target: "style.f90",
			want:   []string{"S101", "S102"},
		},
		{
			name: "implicit-typing",
			files: map[string]string{
				"implicit.f90": "program p\n" +
					"  x = 1\n" +
					"end program p\n",
			},
			target: "implicit.f90",
			want:   []string{"T001"},
		},
		{
			name: "bare-use-and-missing-accessibility",
			files: map[string]string{
				"mod.f90": "module m\n" +
					"  use iso_fortran_env\n" +
					"  implicit none\n" +
					"end module m\n",
			},
			target: "mod.f90",
			want:   []string{"M001", "M011"},
		},
		{
			name: "allow-comment-suppresses",
			files: map[string]string{
				"allowed.f90": "program p\n" +
					"  implicit none\n" +
					"  if (i .gt. 0) j = 1  ! allow(OB051)\n" +
					"end program p\n",
			},
			target: "allowed.f90",
			want:   nil,
		},
		{
			name: "unused-allow-comment",
			files: map[string]string{
				"unused.f90": "program p\n" +
					"  implicit none  ! allow(S101)\n" +
					"end program p\n",
			},
			target: "unused.f90",
			want:   []string{"E012"},
		},
		{
			name: "invalid-allow-token",
			files: map[string]string{
				"invalid.f90": "program p\n" +
					"  implicit none  ! allow(no-such-rule)\n" +
					"end program p\n",
			},
			target: "invalid.f90",
			want:   []string{"E011"},
		},
		{
			name: "select-replaces-default-set",
			files: map[string]string{
				".flint.toml": "[check]\nselect = [\"OB\"]\n",
				"src.f90": "program p\n" +
					"  if (i .gt. 0) j = 1   \n" +
					"end program p\n",
			},
			target: "src.f90",
			want:   []string{"OB051"},
		},
		{
			name: "extend-ignore-from-config",
			files: map[string]string{
				".flint.toml": "[check]\nextend-ignore = [\"S101\"]\n",
				"src.f90": "program p\n" +
					"  implicit none   \n" +
					"end program p\n",
			},
			target: "src.f90",
			want:   nil,
		},
		{
			name: "per-file-ignores-matching-file",
			files: map[string]string{
				".flint.toml": "[check.per-file-ignores]\n\"legacy_*.f90\" = [\"T\"]\n",
				"legacy_solver.f90": "program p\n" +
					"  x = 1\n" +
					"end program p\n",
			},
			target: "legacy_solver.f90",
			want:   nil,
		},
		{
			name: "per-file-ignores-other-file",
			files: map[string]string{
				".flint.toml": "[check.per-file-ignores]\n\"legacy_*.f90\" = [\"T\"]\n",
				"solver.f90": "program p\n" +
					"  x = 1\n" +
					"end program p\n",
			},
			target: "solver.f90",
			want:   []string{"T001"},
		},
		{
			name: "unterminated-program",
			files: map[string]string{
				"broken.f90": "program p\n" +
					"  implicit none\n",
			},
			target: "broken.f90",
			want:   []string{"E001"},
		},
		{
			name: "nonstandard-extension",
			files: map[string]string{
				"prog.f": "program p\n" +
					"  implicit none\n" +
					"end program p\n",
			},
			target: "prog.f",
			want:   []string{"S091"},
		},
		{
			name: "line-length-from-config",
			files: map[string]string{
				".flint.toml": "[check]\nline-length = 20\n",
				"long.f90": "program p\n" +
					"  implicit none\n" +
					"  write(*, *) 'a long message here'\n" +
					"end program p\n",
			},
			target: "long.f90",
			want:   []string{"S001"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			runLintCase(t, tc)
		})
	}
}
