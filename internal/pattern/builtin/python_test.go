package builtin

import "testing"

func TestPythonDocstringDetect(t *testing.T) {
	p := PythonDocstring{}

	cases := []struct {
		name     string
		path     string
		content  string
		wantLine int // 0 = no violation
	}{
		{"docstring present", "m.py", "\"\"\"Module docs.\"\"\"\nx = 1\n", 0},
		{"single quotes", "m.py", "'''docs'''\n", 0},
		{"raw docstring", "m.py", "r\"\"\"regex docs\"\"\"\n", 0},
		{"missing", "m.py", "import os\n", 1},
		{"after comments", "m.py", "#!/usr/bin/env python\n# -*- coding: utf-8 -*-\nimport os\n", 3},
		{"after future import", "m.py", "from __future__ import annotations\n\"\"\"docs\"\"\"\n", 0},
		{"empty module", "__init__.py", "", 0},
		{"blank lines only", "m.py", "\n\n", 0},
		{"not python", "m.txt", "import os\n", 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := p.Detect(virtualFile(t, tc.path, tc.content))
			if tc.wantLine == 0 {
				if len(got) != 0 {
					t.Errorf("expected no violation, got %v", got)
				}
				return
			}
			if len(got) != 1 || got[0].Line != tc.wantLine {
				t.Errorf("expected violation at line %d, got %v", tc.wantLine, got)
			}
		})
	}
}
