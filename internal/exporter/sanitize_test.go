package exporter

import "testing"

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Linux servers", "Linux servers"},
		{"Zabbix server/agent", "Zabbix server_agent"},
		{`a<b>c:d"e/f\g|h?i*j`, "a_b_c_d_e_f_g_h_i_j"},
		{"name\x00with\x1fcontrol", "name_with_control"},
		{"  trimmed.  ", "trimmed"},
		{"...", "_"},
		{"", "_"},
	}
	for _, tt := range tests {
		if got := sanitizeFilename(tt.in); got != tt.want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
