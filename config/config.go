package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

// 支持的媒体存储后端
const (
	StorageLocal = "local"
	StorageS3    = "s3"
	StorageGCS   = "gcs"
)

// Config 结构体用于存储应用程序的配置信息
type Config struct {
	HTTPAddr            string
	DBHost              string
	DBPort              string
	DBUser              string
	DBPassword          string
	DBName              string
	DBMaxOpenConns      int
	LogLevel            string
	FrontendURL         string
	BackendURL          string
	StorageBackend      string
	LocalStoragePath    string
	S3Region            string
	S3Bucket            string
	GCSBucketName       string
	GCSCredentialsFile  string
	MaxUploadSize       int64
	OrphanMediaTTL      time.Duration
	OrphanSweepSchedule string
	Debug               bool // 是否开启调试模式
}

// AppConfig 是全局配置变量
var AppConfig Config

// Init 函数用于初始化配置，配置不完整时直接退出
func Init() {
	// 加载 .env 文件
	if err := godotenv.Load(); err != nil {
		log.Printf("警告：无法加载 .env 文件: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		log.Fatalf("错误：%v", err)
	}
	AppConfig = cfg

	if AppConfig.Debug {
		gin.SetMode(gin.DebugMode)
		log.Println("应用程序运行在调试模式")
	} else {
		gin.SetMode(gin.ReleaseMode)
		log.Println("应用程序运行在生产模式")
	}

	log.Printf("配置加载完成。数据库：%s:%s，存储后端：%s", AppConfig.DBHost, AppConfig.DBPort, AppConfig.StorageBackend)
}

// Load 从环境变量中读取配置并校验
func Load() (Config, error) {
	cfg := Config{
		HTTPAddr:            getEnv("HTTP_ADDR", ":8080"),
		DBHost:              getEnv("DB_HOST", ""),
		DBPort:              getEnv("DB_PORT", "3306"),
		DBUser:              getEnv("DB_USER", ""),
		DBPassword:          getEnv("DB_PASSWORD", ""),
		DBName:              getEnv("DB_NAME", ""),
		DBMaxOpenConns:      getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		FrontendURL:         getEnv("FRONTEND_URL", "http://localhost:5173"),
		BackendURL:          getEnv("BACKEND_URL", ""),
		StorageBackend:      getEnv("STORAGE_BACKEND", StorageLocal),
		LocalStoragePath:    getEnv("LOCAL_STORAGE_PATH", "./uploads"),
		S3Region:            getEnv("S3_REGION", "us-west-2"),
		S3Bucket:            getEnv("S3_BUCKET", ""),
		GCSBucketName:       getEnv("GCS_BUCKET_NAME", ""),
		GCSCredentialsFile:  getEnv("GCS_CREDENTIALS_FILE", ""),
		MaxUploadSize:       int64(getEnvAsInt("MAX_UPLOAD_SIZE", 10<<20)),
		OrphanMediaTTL:      getEnvAsDuration("ORPHAN_MEDIA_TTL", 24*time.Hour),
		OrphanSweepSchedule: getEnv("ORPHAN_SWEEP_SCHEDULE", "@hourly"),
		Debug:               getEnvAsBool("DEBUG", false),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate 校验配置的完整性
func (c Config) Validate() error {
	if c.DBHost == "" || c.DBUser == "" || c.DBPassword == "" || c.DBName == "" {
		return fmt.Errorf("数据库配置不完整")
	}
	switch c.StorageBackend {
	case StorageLocal:
		if c.LocalStoragePath == "" {
			return fmt.Errorf("本地存储路径未设置")
		}
	case StorageS3:
		if c.S3Bucket == "" {
			return fmt.Errorf("S3 存储桶未设置")
		}
	case StorageGCS:
		if c.GCSBucketName == "" {
			return fmt.Errorf("GCS 存储桶未设置")
		}
	default:
		return fmt.Errorf("不支持的存储后端: %q", c.StorageBackend)
	}
	if c.MaxUploadSize <= 0 {
		return fmt.Errorf("MAX_UPLOAD_SIZE 必须为正数")
	}
	return nil
}

// DSN 返回 MySQL 连接字符串
func (c Config) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultVal int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	valStr := getEnv(key, "")
	if val, err := strconv.ParseBool(valStr); err == nil {
		return val
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	valStr := getEnv(key, "")
	if val, err := time.ParseDuration(valStr); err == nil {
		return val
	}
	return defaultVal
}
