package config

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer
	BaseURL     string `env:"BASE_URL"`
	APIKey      string `env:"API_KEY,required"`

	DB         Database   `envPrefix:"DB_"`
	Stripe     Stripe     `envPrefix:"STRIPE_"`
	Cloudinary Cloudinary `envPrefix:"CLOUDINARY_"`

	// AllowUnverifiedTestPayments enables the test-confirm endpoint and the
	// treat-unknown-intent-as-succeeded submit fallback. Must stay off
	// outside test environments: it bypasses real payer authorization.
	AllowUnverifiedTestPayments bool `env:"ALLOW_UNVERIFIED_TEST_PAYMENTS" envDefault:"false"`
}

type Database struct {
	Driver string `env:"DRIVER" envDefault:"sqlite"` // sqlite or mysql
	URL    string `env:"URL" envDefault:"application-portal.db"`
}

type Stripe struct {
	BaseAPIURL    string `env:"BASE_API_URL" envDefault:"https://api.stripe.com"`
	SecretKey     string `env:"SECRET_KEY,required"`
	WebhookSecret string `env:"WEBHOOK_SECRET"`
}

type Cloudinary struct {
	CloudName string `env:"CLOUD_NAME"`
	APIKey    string `env:"API_KEY"`
	APISecret string `env:"API_SECRET"`
	Folder    string `env:"FOLDER" envDefault:"applications"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Host          string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port          string `env:"HTTP_PORT" envDefault:"8080"`
	AllowedOrigin string `env:"ALLOWED_ORIGIN" envDefault:"http://localhost:3000"`
}
