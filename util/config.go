package util

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/samber/lo"
)

type Config struct {
	Port           string   `mapstructure:"PORT" validate:"required,number"`
	AllowedOrigins []string `mapstructure:"ALLOWED_ORIGINS"`
}

func LoadConfig() (*Config, error) {
	godotenv.Load()

	config := &Config{
		Port:           os.Getenv("PORT"),
		AllowedOrigins: splitOrigins(os.Getenv("ALLOWED_ORIGINS")),
	}

	if err := Validate.Struct(config); err != nil {
		return nil, err
	}

	return config, nil
}

// splitOrigins parses a comma-separated origin list. An empty value
// yields nil, which callers treat as "allow any origin".
func splitOrigins(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	origins := lo.Map(strings.Split(s, ","), func(origin string, _ int) string {
		return strings.TrimSpace(origin)
	})

	return lo.Filter(origins, func(origin string, _ int) bool {
		return origin != ""
	})
}
