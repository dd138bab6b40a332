package command

import "testing"

func TestEvalCost(t *testing.T) {
	tests := []struct {
		input string
		want  int64
		ok    bool
	}{
		{"1200", 1200, true},
		{"1000+200", 1200, true},
		{"100*3+50", 350, true},
		{"1000-200*2", 600, true},
		{"1000/3", 333, true},
		{"1001/2", 501, true},
		{"10/4", 3, true},
		{"100-100", 0, false},
		{"100-200", 0, false},
		{"100/0", 0, false},
		{"100+", 0, false},
		{"+100", 0, false},
		{"1..2", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, err := EvalCost(tt.input)
		if tt.ok && err != nil {
			t.Errorf("EvalCost(%q) error: %v", tt.input, err)
			continue
		}
		if !tt.ok {
			if err == nil {
				t.Errorf("EvalCost(%q) = %d, expected error", tt.input, got)
			}
			continue
		}
		if got != tt.want {
			t.Errorf("EvalCost(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestIsExprToken(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"1200", true},
		{"100*3", true},
		{"1/2", true},
		{"+-", false},
		{"12a", false},
		{"x2", false},
		{"小明", false},
	}
	for _, tt := range tests {
		if got := isExprToken(tt.input); got != tt.want {
			t.Errorf("isExprToken(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"１１/５（三）", "11/5(三)"},
		{"ｘ２", "x2"},
		{"１０００＋２００", "1000+200"},
		{"×3", "x3"},
		{"小明　大華", "小明 大華"},
		{"台北店", "台北店"},
	}
	for _, tt := range tests {
		if got := Normalize(tt.input); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
