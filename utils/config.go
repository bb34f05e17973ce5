package utils

import (
	"os"

	_ "github.com/joho/godotenv/autoload"
)

var (
	SpreadsheetID      string = os.Getenv("SPREADSHEET_ID")
	ServiceAccountFile string = os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE")
	ServiceAccountJSON string = os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON")
	JWTSecret          string = os.Getenv("JWT_SECRET")
	JWTIssuer          string = os.Getenv("JWT_ISSUER")
	Timezone           string = getenvDefault("TIMEZONE", "Asia/Karachi")
)

func getenvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

type Config struct {
	Port int
	Env  string
	JWT  struct {
		Secret string
		Issuer string
	}
	Sheets struct {
		SpreadsheetID      string
		ServiceAccountFile string
		ServiceAccountJSON string
	}
	Timezone    string
	RateLimiter struct {
		Rps     int
		Burst   int
		Enabled bool
	}
}
