package transfer

import "testing"

func TestParseClassNumber(t *testing.T) {
	tests := []struct {
		number     string
		wantDigits string
		wantSuffix string
	}{
		{number: "5А", wantDigits: "5", wantSuffix: "А"},
		{number: "11", wantDigits: "11", wantSuffix: ""},
		{number: "А", wantDigits: "", wantSuffix: "А"},
		{number: " 10Б ", wantDigits: "10", wantSuffix: "Б"},
		{number: "7 коррекц.", wantDigits: "7", wantSuffix: " коррекц."},
		{number: "", wantDigits: "", wantSuffix: ""},
	}
	for _, tt := range tests {
		t.Run(tt.number, func(t *testing.T) {
			digits, suffix := ParseClassNumber(tt.number)
			if digits != tt.wantDigits || suffix != tt.wantSuffix {
				t.Errorf("ParseClassNumber() = (%q, %q), want (%q, %q)", digits, suffix, tt.wantDigits, tt.wantSuffix)
			}
		})
	}
}

func TestIncrementClassNumber(t *testing.T) {
	tests := []struct {
		number string
		want   string
		wantOk bool
	}{
		{number: "5А", want: "6А", wantOk: true},
		{number: "10Б", want: "11Б", wantOk: true},
		{number: "9", want: "10", wantOk: true},
		{number: "09В", want: "10В", wantOk: true},
		{number: "А", want: "А", wantOk: false},
		{number: "", want: "", wantOk: false},
	}
	for _, tt := range tests {
		t.Run(tt.number, func(t *testing.T) {
			got, ok := IncrementClassNumber(tt.number)
			if got != tt.want || ok != tt.wantOk {
				t.Errorf("IncrementClassNumber() = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.wantOk)
			}
		})
	}

	t.Run("twice", func(t *testing.T) {
		once, _ := IncrementClassNumber("5А")
		twice, _ := IncrementClassNumber(once)
		if twice != "7А" {
			t.Errorf("IncrementClassNumber(IncrementClassNumber(5А)) = %q, want 7А", twice)
		}
	})
}

func TestIsGraduating(t *testing.T) {
	tests := []struct {
		number string
		want   bool
	}{
		{"11", true},
		{"11Б", true},
		{" 11А", true},
		{"10Б", false},
		{"1", false},
		{"111", true},
	}
	for _, tt := range tests {
		t.Run(tt.number, func(t *testing.T) {
			if got := IsGraduating(tt.number); got != tt.want {
				t.Errorf("IsGraduating() = %v, want %v", got, tt.want)
			}
		})
	}
}
