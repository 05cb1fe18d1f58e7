package config

import (
	"log/slog"
	"os"
	"reflect"
	"strings"
	"sync"
	"unicode"

	"chemmarket/internal/logger"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort            string
	AppName            string
	MongoURI           string
	MongoDBName        string
	AccessTokenSecret  string
	RefreshTokenSecret string
	SendgridAPIKey     string
	MailFromName       string
	MailFromEmail      string
	AWSRegion          string
	S3Bucket           string
	PublicBaseURL      string
	RemoteLogHttpURI   string
	RemoteTraceRpcURI  string
	RemoteProfilingURI string
}

// SafeConfig mirrors Config without secrets so the startup log stays clean.
type SafeConfig struct {
	AppPort            string `json:"app_port"`
	AppName            string `json:"app_name"`
	MongoDBName        string `json:"mongo_db_name"`
	MailFromName       string `json:"mail_from_name"`
	MailFromEmail      string `json:"mail_from_email"`
	AWSRegion          string `json:"aws_region"`
	S3Bucket           string `json:"s3_bucket"`
	PublicBaseURL      string `json:"public_base_url"`
	RemoteLogHttpURI   string `json:"remote_log_http_uri"`
	RemoteTraceRpcURI  string `json:"remote_trace_rpc_uri"`
	RemoteProfilingURI string `json:"remote_profiling_uri"`
}

func toSnake(s string) string {
	var out strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 && s[i-1] != '_' {
				out.WriteRune('_')
			}
			out.WriteRune(unicode.ToLower(r))
		} else {
			out.WriteRune(r)
		}
	}
	return out.String()
}

// StructAttrs("data", cfg) ➜ []slog.Attr{ slog.String("data.app_port", "3001"), ... }
func StructAttrs(prefix string, s any) []slog.Attr {
	v := reflect.ValueOf(s)
	if v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	t := v.Type()

	attrs := make([]slog.Attr, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		key := prefix + "." + jsonKey(f)

		switch v.Field(i).Kind() {
		case reflect.String:
			attrs = append(attrs, slog.String(key, v.Field(i).String()))
		case reflect.Int, reflect.Int64, reflect.Int32:
			attrs = append(attrs, slog.Int64(key, v.Field(i).Int()))
		default:
			attrs = append(attrs, slog.Any(key, v.Field(i).Interface()))
		}
	}
	return attrs
}

func jsonKey(f reflect.StructField) string {
	if tag := f.Tag.Get("json"); tag != "" {
		return strings.Split(tag, ",")[0]
	}
	return toSnake(f.Name)
}

func (c *Config) ToSafeConfig() SafeConfig {
	return SafeConfig{
		AppPort:            c.AppPort,
		AppName:            c.AppName,
		MongoDBName:        c.MongoDBName,
		MailFromName:       c.MailFromName,
		MailFromEmail:      c.MailFromEmail,
		AWSRegion:          c.AWSRegion,
		S3Bucket:           c.S3Bucket,
		PublicBaseURL:      c.PublicBaseURL,
		RemoteLogHttpURI:   c.RemoteLogHttpURI,
		RemoteTraceRpcURI:  c.RemoteTraceRpcURI,
		RemoteProfilingURI: c.RemoteProfilingURI,
	}
}

var log = logger.Instance()
var (
	configInstance *Config
	configOnce     sync.Once
)

func Instance() *Config {
	configOnce.Do(func() {

		// Load .env file (optional)
		if err := godotenv.Load(); err != nil {
			log.Warn("No .env file found, using system environment variables")
		}

		configInstance = &Config{
			AppPort:            os.Getenv("APP_PORT"),
			AppName:            os.Getenv("APP_NAME"),
			MongoURI:           os.Getenv("MONGO_URI"),
			MongoDBName:        os.Getenv("MONGO_DB_NAME"),
			AccessTokenSecret:  os.Getenv("ACCESS_TOKEN_SECRET"),
			RefreshTokenSecret: os.Getenv("REFRESH_TOKEN_SECRET"),
			SendgridAPIKey:     os.Getenv("SENDGRID_API_KEY"),
			MailFromName:       os.Getenv("MAIL_FROM_NAME"),
			MailFromEmail:      os.Getenv("MAIL_FROM_EMAIL"),
			AWSRegion:          os.Getenv("AWS_REGION"),
			S3Bucket:           os.Getenv("S3_BUCKET"),
			PublicBaseURL:      os.Getenv("PUBLIC_BASE_URL"),
			RemoteLogHttpURI:   os.Getenv("REMOTE_LOG_HTTP_URI"),
			RemoteTraceRpcURI:  os.Getenv("REMOTE_TRACE_RPC_URI"),
			RemoteProfilingURI: os.Getenv("REMOTE_PROFILING_HTTP_URI"),
		}

		// Optional but recommended
		if configInstance.SendgridAPIKey == "" {
			log.Warn("Missing SENDGRID_API_KEY; OTP and reset mails will fail to send")
		}
		if configInstance.S3Bucket == "" {
			log.Warn("Missing S3_BUCKET; image uploads are disabled")
		}
		if configInstance.RemoteLogHttpURI == "" {
			log.Warn("Missing REMOTE_LOG_HTTP_URI will skip sending log")
		}
		if configInstance.RemoteTraceRpcURI == "" {
			log.Warn("Missing REMOTE_TRACE_RPC_URI will export traces to stdout")
		}
		if configInstance.RemoteProfilingURI == "" {
			log.Warn("Missing REMOTE_PROFILING_HTTP_URI will skip profiling")
		}

		// Validate required env
		var missing []string
		if configInstance.AppPort == "" {
			missing = append(missing, "APP_PORT")
		}
		if configInstance.AppName == "" {
			missing = append(missing, "APP_NAME")
		}
		if configInstance.MongoURI == "" {
			missing = append(missing, "MONGO_URI")
		}
		if configInstance.MongoDBName == "" {
			missing = append(missing, "MONGO_DB_NAME")
		}
		if configInstance.AccessTokenSecret == "" {
			missing = append(missing, "ACCESS_TOKEN_SECRET")
		}
		if configInstance.RefreshTokenSecret == "" {
			missing = append(missing, "REFRESH_TOKEN_SECRET")
		}

		if len(missing) > 0 {
			log.Error("Missing required environment variables", slog.Any("missing", missing))
			os.Exit(1)
		}

		attrs := StructAttrs("data", configInstance.ToSafeConfig())
		anyAttrs := make([]any, len(attrs))
		for i, a := range attrs {
			anyAttrs[i] = a
		}
		log.Info("Configuration loaded successfully", anyAttrs...)
	})

	return configInstance
}
