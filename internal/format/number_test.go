package format

import "testing"

func TestFormatNumberString(t *testing.T) {
	t.Parallel()
	tests := []struct {
		input, want string
	}{
		{"", ""},
		{"7", "7"},
		{"999", "999"},
		{"1000", "1,000"},
		{"65536", "65,536"},
		{"1080000", "1,080,000"},
		{"-4096", "-4,096"},
	}
	for _, tt := range tests {
		if got := FormatNumberString(tt.input); got != tt.want {
			t.Errorf("FormatNumberString(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestFormatCount(t *testing.T) {
	t.Parallel()
	tests := map[int]string{0: "0", 500: "500", 1080000: "1,080,000", -4096: "-4,096"}
	for in, want := range tests {
		if got := FormatCount(in); got != want {
			t.Errorf("FormatCount(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatBytes(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   uint64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{5 * 1024 * 1024, "5.0 MiB"},
		{3 << 30, "3.0 GiB"},
	}
	for _, tt := range tests {
		if got := FormatBytes(tt.in); got != tt.want {
			t.Errorf("FormatBytes(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
