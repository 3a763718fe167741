package types

type Config struct {
	Environment     string `envconfig:"ENVIRONMENT" default:"development"`
	ServerPort      uint   `envconfig:"SERVER_PORT" default:"3000"`
	BaseURL         string `envconfig:"BASE_URL"`
	StorageDir      string `envconfig:"STORAGE_DIR" default:"salvarpdf"`
	ReadTimeoutSec  uint   `envconfig:"READ_TIMEOUT_SEC" default:"10"`
	WriteTimeoutSec uint   `envconfig:"WRITE_TIMEOUT_SEC" default:"15"`

	// Admin auth. AdminPasswordBcrypt, when set, takes precedence over
	// the plaintext password comparison.
	AdminPassword       string `envconfig:"ADMIN_PASSWORD" default:"1112"`
	AdminPasswordBcrypt string `envconfig:"ADMIN_PASSWORD_BCRYPT"`

	// Session cookie
	SessionSecret    string `envconfig:"SESSION_SECRET" default:"musae-termo-secret-key"`
	CookieName       string `envconfig:"SESSION_COOKIE_NAME" default:"musae_admin"`
	SessionMaxAgeSec int    `envconfig:"SESSION_MAX_AGE_SEC" default:"86400"` // 24 hours
	SecureCookies    bool   `envconfig:"SECURE_COOKIES"`

	// Optional S3-compatible mirror for stored PDFs. Empty disables
	// mirroring entirely.
	MirrorBucket string `envconfig:"MIRROR_BUCKET"`
	MirrorPrefix string `envconfig:"MIRROR_PREFIX" default:"termos"`
}
