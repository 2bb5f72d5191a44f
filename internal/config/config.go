package config

import (
	"errors"
	"fmt"
	"io/fs"
	"reflect"
	"strings"

	"github.com/alvinbaena/pwd-analyzer/internal/util"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var ErrInvalidConfig = errors.New("invalid configuration")

const (
	SourceDefault = "default"
	SourceFile    = "file"
	SourceGCS     = "gcs"
	SourceRedis   = "redis"
	SourceS3      = "s3"

	ModelFeatures = "features"
	ModelScore    = "score"
)

type Config struct {
	Port    uint16 `mapstructure:"PORT" validate:"required"`
	SelfTLS bool   `mapstructure:"SELF_TLS"`
	TLSCert string `mapstructure:"TLS_CERT" validate:"required_with=TLSKey"`
	TLSKey  string `mapstructure:"TLS_KEY" validate:"required_with=TLSCert"`
	Debug   bool   `mapstructure:"DEBUG"`
	Locale  string `mapstructure:"LOCALE" validate:"required,bcp47_language_tag"`

	LeakSource   string `mapstructure:"LEAK_SOURCE" validate:"oneof=default file gcs redis s3"`
	LeakFile     string `mapstructure:"LEAK_FILE" validate:"required_if=LeakSource file"`
	GcsFile      string `mapstructure:"GCS_FILE" validate:"required_if=LeakSource gcs"`
	GcsCacheSize int64  `mapstructure:"GCS_CACHE_SIZE" validate:"gte=0"`
	RedisURL     string `mapstructure:"REDIS_URL" validate:"required_if=LeakSource redis"`
	RedisKey     string `mapstructure:"REDIS_KEY" validate:"required_if=LeakSource redis"`
	S3Bucket     string `mapstructure:"S3_BUCKET" validate:"required_if=LeakSource s3"`
	S3Key        string `mapstructure:"S3_KEY" validate:"required_if=LeakSource s3"`
	S3Region     string `mapstructure:"S3_REGION"`
	S3Endpoint   string `mapstructure:"S3_ENDPOINT" validate:"omitempty,url"`

	// Static S3 credentials. When unset the default AWS chain applies.
	S3AccessKey string `mapstructure:"S3_ACCESS_KEY" validate:"required_with=S3SecretKey"`
	S3SecretKey string `mapstructure:"S3_SECRET_KEY" validate:"required_with=S3AccessKey"`

	CrackTimeModel string  `mapstructure:"CRACK_TIME_MODEL" validate:"oneof=features score"`
	SlowAttackRate float64 `mapstructure:"SLOW_ATTACK_RATE" validate:"gt=0"`
	FastAttackRate float64 `mapstructure:"FAST_ATTACK_RATE" validate:"gt=0"`
}

func setDefaults() {
	viper.SetDefault("PORT", 3100)
	viper.SetDefault("LOCALE", "en")
	viper.SetDefault("LEAK_SOURCE", SourceDefault)
	viper.SetDefault("GCS_CACHE_SIZE", 100_000)
	viper.SetDefault("REDIS_KEY", "leaked_passwords")
	viper.SetDefault("S3_REGION", "us-east-1")
	viper.SetDefault("CRACK_TIME_MODEL", ModelFeatures)
	viper.SetDefault("SLOW_ATTACK_RATE", 1e4)
	viper.SetDefault("FAST_ATTACK_RATE", 1e8)
}

func bindEnvs(iface interface{}, parts ...string) {
	ifv := reflect.ValueOf(iface)
	ift := reflect.TypeOf(iface)
	for i := 0; i < ift.NumField(); i++ {
		v := ifv.Field(i)
		t := ift.Field(i)
		tv, ok := t.Tag.Lookup("mapstructure")
		if !ok {
			continue
		}
		switch v.Kind() {
		case reflect.Struct:
			bindEnvs(v.Interface(), append(parts, tv)...)
		default:
			_ = viper.BindEnv(strings.Join(append(parts, tv), "."))
		}
	}
}

func msgForTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "required_if":
		param := strings.Fields(fe.Param())
		if len(param) == 2 {
			return fmt.Sprintf("This field is required if %s is %s", util.ToScreamingSnakeCase(param[0]), param[1])
		}
		return fmt.Sprintf("This field is required if %s", util.ToScreamingSnakeCase(fe.Param()))
	case "required_with":
		return fmt.Sprintf("This field requires the presence of %s", util.ToScreamingSnakeCase(fe.Param()))
	case "oneof":
		return fmt.Sprintf("This field must be one of [%s]", fe.Param())
	case "gt", "gte":
		return fmt.Sprintf("This field must be %s %s", map[string]string{"gt": ">", "gte": ">="}[fe.Tag()], fe.Param())
	case "url":
		return "This field must be a valid URL"
	case "bcp47_language_tag":
		return "This field must be a language tag like en or es"
	}
	return fe.Error() // default error
}

// Load reads the configuration from the environment, after loading the given
// .env files (".env" when none are given). Missing .env files are ignored.
// Values set on the global viper instance, such as bound cobra flags, take
// precedence over the environment.
func Load(envFiles ...string) (config Config, err error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err = godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return config, fmt.Errorf("load %s: %w", f, err)
		}
	}

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults()

	// This is to not require a config file to unmarshal Envs in a struct
	// https://github.com/spf13/viper/issues/188#issuecomment-399884438
	config = Config{}
	bindEnvs(config)

	if err = viper.Unmarshal(&config); err != nil {
		return config, fmt.Errorf("%w: %s", ErrInvalidConfig, err)
	}

	err = Validate(config)
	return config, err
}

// Validate reports every invalid field, named after its environment variable.
func Validate(config Config) error {
	validate := validator.New()

	err := validate.Struct(&config)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, err)
	}

	var msgs []string
	for _, fe := range ve {
		msgs = append(msgs, fmt.Sprintf("%s: %s", util.ToScreamingSnakeCase(fe.Field()), msgForTag(fe)))
	}
	return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(msgs, ". "))
}
