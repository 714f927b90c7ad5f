package probe

import "testing"

func TestIsSafeURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"パブリックIP", "https://8.8.8.8/favicon.ico", false},
		{"IPv6 パブリック", "https://[2001:4860:4860::8888]/a.png", false},

		{"不正なスキーム", "gopher://8.8.8.8", true},
		{"GCSスキームはURL検証の対象外", "gs://my-bucket/path/to/image.png", true},
		{"ループバック", "http://127.0.0.1/admin", true},
		{"プライベートIP (クラスA)", "http://10.255.255.254/metadata", true},
		{"リンクローカル (メタデータサーバー)", "http://169.254.169.254/latest", true},
		{"未指定アドレス", "http://0.0.0.0/", true},
		{"相対パス", "/Real_GDP.png", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			safe, err := IsSafeURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Errorf("IsSafeURL() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !safe {
				t.Errorf("%s: safe URL was flagged as unsafe", tt.url)
			}
			if tt.wantErr && safe {
				t.Errorf("%s: unsafe URL was flagged as safe", tt.url)
			}
		})
	}
}
