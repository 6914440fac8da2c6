package configs

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                string
	MongoURI            string
	DBName              string
	BooksCollection     string
	BorrowsCollection   string
	AuditLogsCollection string
	AuditExportInterval time.Duration
}

func LoadConfig() Config {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, using environment variables")
	}

	exportInterval := 30 * time.Second
	if val := os.Getenv("AUDIT_EXPORT_INTERVAL_SECONDS"); val != "" {
		secs, err := strconv.Atoi(val)
		if err != nil {
			log.Fatalf("Invalid AUDIT_EXPORT_INTERVAL_SECONDS: %v", err)
		}
		exportInterval = time.Duration(secs) * time.Second
	}

	return Config{
		Port:                getEnv("PORT", "5000"),
		MongoURI:            getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DBName:              getEnv("DB_NAME", "LMS"),
		BooksCollection:     getEnv("BOOKS_COLLECTION", "Books"),
		BorrowsCollection:   getEnv("BORROWS_COLLECTION", "Borrows"),
		AuditLogsCollection: getEnv("AUDIT_LOGS_COLLECTION", "audit_logs"),
		AuditExportInterval: exportInterval,
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
