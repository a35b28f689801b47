package storage

import "testing"

func TestReportKey(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"hearing.wav", "hearing_report.json"},
		{"/data/in/audience.2024.mp3", "audience.2024_report.json"},
		{`C:\rec\session.ogg`, "session_report.json"},
		{"noext", "noext_report.json"},
	}
	for _, tt := range tests {
		if got := ReportKey(tt.in); got != tt.want {
			t.Errorf("ReportKey(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
	if got := ReportID("reports/hearing_report.json"); got != "hearing" {
		t.Errorf("ReportID() = %q, want hearing", got)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"local with dir", Config{Local: LocalConfig{Dir: "data/outputs"}}, false},
		{"local without dir", Config{}, true},
		{"s3 without bucket", Config{Backend: BackendS3}, true},
		{"s3 with bucket", Config{Backend: BackendS3, S3: S3Config{Bucket: "r"}}, false},
		{"unknown backend", Config{Backend: "ftp"}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.cfg.ApplyDefaults()
			if err := tc.cfg.Validate(); (err != nil) != tc.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}
