package config

import "os"

type Config struct {
	DatabaseURL string
	Port        string

	RabbitUser string
	RabbitPass string
	RabbitHost string
	RabbitPort string

	MailHost string
	MailPort int
	MailUser string
	MailPass string
	MailFrom string

	CORSOrigins []string
}

func FromEnv() Config {
	return Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		Port:        envOr("PORT", "8080"),

		RabbitUser: envOr("RABBITMQ_USER", "guest"),
		RabbitPass: envOr("RABBITMQ_PASS", "guest"),
		RabbitHost: envOr("RABBITMQ_HOST", "localhost"),
		RabbitPort: envOr("RABBITMQ_PORT", "5672"),

		MailHost: os.Getenv("MAIL_HOST"),
		MailPort: 587,
		MailUser: os.Getenv("MAIL_USER"),
		MailPass: os.Getenv("MAIL_PASS"),
		MailFrom: envOr("MAIL_FROM", "no-reply@xike.in"),

		CORSOrigins: []string{envOr("CORS_ORIGIN", "http://localhost:3000"), "*"},
	}
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}
