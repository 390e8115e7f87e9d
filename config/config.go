package config

import (
	"log"
	"os"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/joho/godotenv"
)

var Cloudinary *cloudinary.Cloudinary

// LoadEnv nạp biến môi trường từ tệp `.env`
func LoadEnv() error {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: không nạp được file .env: %v", err)
	}
	return nil
}

// GetEnv đọc một biến môi trường
func GetEnv(key string) string {
	return os.Getenv(key)
}

// GetEnvDefault đọc một biến môi trường, trả fallback nếu trống
func GetEnvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// ConnectCloudinary khởi tạo client Cloudinary từ CLOUDINARY_URL
func ConnectCloudinary() error {
	var err error
	Cloudinary, err = cloudinary.NewFromURL(GetEnv("CLOUDINARY_URL"))
	if err != nil {
		return err
	}
	return nil
}
