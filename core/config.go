package core

import (
	"fmt"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kat-co/vala"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type (
	Config struct {
		Env      string
		Debug    bool
		TestMode bool
		AppName  string
		Build    string
		WorkDir  string

		SecretKey                 string
		JWTExpirationDelta        time.Duration
		JWTRefreshExpirationDelta time.Duration

		DefaultFromEmail mail.Address
		NotifyEmail      string // check-in outcomes are mailed here when set
		SendgridAPIKey   string
		RollbarToken     string

		Server     ServerConfig
		Database   DatabaseConfig
		Attendance AttendanceConfig
	}

	ServerConfig struct {
		Host string
		Port string
	}

	DatabaseConfig struct {
		Engine        string
		Name          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		Host          string
		Port          string
		DisableTLS    bool
	}

	// AttendanceConfig carries the attendance workflow settings. The
	// well-known course identifier is configuration rather than a package
	// global so isolated instances can run side by side.
	AttendanceConfig struct {
		DefaultCourseID          string
		DefaultCourseName        string
		DefaultCourseCode        string
		DefaultCourseDescription string

		// StudentLoginDomain derives a unique login key from a student's
		// external ID: <externalID>@<domain>.
		StudentLoginDomain string

		// ProvisionWaitBudget bounds how long a resolver waits for a newly
		// created identity's profile row to materialize.
		ProvisionWaitBudget   time.Duration
		ProvisionPollInterval time.Duration

		DefaultRecentLimit int
	}
)

func (c ServerConfig) Address() string { return c.Host + ":" + c.Port }

func (c DatabaseConfig) Address() string { return c.Host + ":" + c.Port }

// LoadConfig reads configuration from defaults, an optional config/.env.<env>
// file and <ENV>_-prefixed environment variables.
func LoadConfig(workDir string) (*Config, error) {
	v := viper.New()
	v.SetTypeByDefaultValue(true)

	v.SetDefault("debug", true)
	v.SetDefault("appName", "Darasa")
	v.SetDefault("build", "dev")
	v.SetDefault("secretKey", "poq5-wer)enb$+57=dz&uoxh2(h!x)#*c2(#yg4h^$cegm2emy")
	v.SetDefault("jwtExpirationDelta", 7*24*time.Hour)
	v.SetDefault("jwtRefreshExpirationDelta", 4*time.Hour)
	v.SetDefault("defaultFromEmail", "noreply@localhost")
	v.SetDefault("notifyEmail", "")
	v.SetDefault("sendgridApiKey", "")
	v.SetDefault("rollbarToken", "")

	v.SetDefault("serverHost", "")
	v.SetDefault("serverPort", "8000")

	v.SetDefault("databaseEngine", "postgres")
	v.SetDefault("databaseName", "darasa")
	v.SetDefault("databaseUser", "darasa")
	v.SetDefault("databasePassword", "")
	v.SetDefault("databaseAdminUser", "")
	v.SetDefault("databaseAdminPassword", "")
	v.SetDefault("databaseHost", "localhost")
	v.SetDefault("databasePort", "5432")
	v.SetDefault("databaseDisableTLS", true)

	v.SetDefault("defaultCourseId", "00000000-0000-0000-0000-000000000001")
	v.SetDefault("defaultCourseName", "Default Course")
	v.SetDefault("defaultCourseCode", "DEFAULT101")
	v.SetDefault("defaultCourseDescription", "Default course for attendance tracking")
	v.SetDefault("studentLoginDomain", "edu.com")
	v.SetDefault("provisionWaitBudget", 5*time.Second)
	v.SetDefault("provisionPollInterval", 100*time.Millisecond)
	v.SetDefault("defaultRecentLimit", 5)

	env := os.Getenv("ENV") // DEV (local; default), TEST, QA, PROD
	if env == "" {
		env = "DEV"
	}
	v.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(workDir, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			return nil, errors.Wrapf(err, "loading %s", dotEnvPath)
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "checking %s", dotEnvPath)
	}
	v.AutomaticEnv()

	from, err := mail.ParseAddress(v.GetString("defaultFromEmail"))
	if err != nil {
		return nil, errors.Wrap(err, "parsing defaultFromEmail")
	}

	conf := &Config{
		Env:                       env,
		Debug:                     v.GetBool("debug"),
		TestMode:                  env == "TEST",
		AppName:                   v.GetString("appName"),
		Build:                     v.GetString("build"),
		WorkDir:                   workDir,
		SecretKey:                 v.GetString("secretKey"),
		JWTExpirationDelta:        v.GetDuration("jwtExpirationDelta"),
		JWTRefreshExpirationDelta: v.GetDuration("jwtRefreshExpirationDelta"),
		DefaultFromEmail:          *from,
		NotifyEmail:               v.GetString("notifyEmail"),
		SendgridAPIKey:            v.GetString("sendgridApiKey"),
		RollbarToken:              v.GetString("rollbarToken"),
		Server: ServerConfig{
			Host: v.GetString("serverHost"),
			Port: v.GetString("serverPort"),
		},
		Database: DatabaseConfig{
			Engine:        v.GetString("databaseEngine"),
			Name:          v.GetString("databaseName"),
			User:          v.GetString("databaseUser"),
			Password:      v.GetString("databasePassword"),
			AdminUser:     v.GetString("databaseAdminUser"),
			AdminPassword: v.GetString("databaseAdminPassword"),
			Host:          v.GetString("databaseHost"),
			Port:          v.GetString("databasePort"),
			DisableTLS:    v.GetBool("databaseDisableTLS"),
		},
		Attendance: AttendanceConfig{
			DefaultCourseID:          v.GetString("defaultCourseId"),
			DefaultCourseName:        v.GetString("defaultCourseName"),
			DefaultCourseCode:        v.GetString("defaultCourseCode"),
			DefaultCourseDescription: v.GetString("defaultCourseDescription"),
			StudentLoginDomain:       v.GetString("studentLoginDomain"),
			ProvisionWaitBudget:      v.GetDuration("provisionWaitBudget"),
			ProvisionPollInterval:    v.GetDuration("provisionPollInterval"),
			DefaultRecentLimit:       v.GetInt("defaultRecentLimit"),
		},
	}
	if err := conf.validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

func (c *Config) validate() error {
	return vala.BeginValidation().Validate(
		vala.StringNotEmpty(c.SecretKey, "secretKey"),
		vala.StringNotEmpty(c.Database.Engine, "databaseEngine"),
		vala.StringNotEmpty(c.Database.Name, "databaseName"),
		vala.StringNotEmpty(c.Attendance.DefaultCourseID, "defaultCourseId"),
		vala.StringNotEmpty(c.Attendance.StudentLoginDomain, "studentLoginDomain"),
		vala.GreaterThan(int(c.Attendance.ProvisionWaitBudget), int(time.Second)-1, "provisionWaitBudget"),
		vala.GreaterThan(int(c.Attendance.ProvisionPollInterval), 0, "provisionPollInterval"),
		vala.GreaterThan(c.Attendance.DefaultRecentLimit, 0, "defaultRecentLimit"),
	).Check()
}

// Getwd finds the project root by walking up from the current directory until
// a go.mod is found. go-test changes the working directory to the package
// being tested, which breaks relative paths.
// see: https://stackoverflow.com/questions/23847003/golang-tests-and-working-directory
func Getwd() string {
	wd, err := os.Getwd()
	if err != nil {
		panic(err)
	}
	currDir := wd
	for {
		if _, err := os.Stat(filepath.Join(currDir, "go.mod")); err == nil {
			return currDir
		}
		newDir := filepath.Dir(currDir)
		if newDir == string(os.PathSeparator) || newDir == currDir {
			panic(fmt.Sprintf("project root not found from %s", wd))
		}
		currDir = newDir
	}
}
