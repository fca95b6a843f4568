package exchange

import (
	"fmt"
	"io"
	"os"
	"os/user"
	"path/filepath"
	"reflect"
	"runtime"
	"strconv"
	"strings"

	"github.com/Lafeng/dhlab/crypto"
	"github.com/Lafeng/dhlab/exception"
	log "github.com/Lafeng/dhlab/glog"
	"github.com/Lafeng/dhlab/prime"
	"github.com/go-ini/ini"
	"github.com/kardianos/osext"
)

const (
	CF_EXCHANGE = "dhlab.Exchange"
	CONFIG_NAME = "dhlab.ini"

	// the multiplicative cipher over a textbook exchange
	METHOD_TEXTBOOK = crypto.MethodTextbook
)

var (
	CONF_ERROR = exception.ConfigError.Derive("Error field in config:")
	CONF_LOAD  = exception.ConfigError.Derive("Cannot load config:")
)

type Config struct {
	DigitCount  int    `importable:"8"`
	Iterations  int    `importable:"1500"`
	SearchLimit int    `importable:"1000000"`
	Method      string `importable:"TEXTBOOK"`
	StrictRoot  bool   `importable:"true"`
	Verbose     int    `importable:"1"`
	// file the values were read from, empty for defaults
	Source string `ini:"-"`
}

func DefaultConfig() *Config {
	c := new(Config)
	setFieldsDefaultValue(c)
	return c
}

// candidate config files, first existing one wins
func configPaths() []string {
	paths := []string{CONFIG_NAME} // cwd
	// same path with exe
	if ef, err := osext.ExecutableFolder(); err == nil {
		paths = append(paths, filepath.Join(ef, CONFIG_NAME))
	}
	var home string
	if u, err := user.Current(); err == nil {
		home = u.HomeDir
	} else {
		home = os.Getenv("HOME")
	}
	if home != "" {
		paths = append(paths, filepath.Join(home, CONFIG_NAME))
	}
	if runtime.GOOS != "windows" {
		paths = append(paths, "/etc/dhlab/"+CONFIG_NAME)
	}
	return paths
}

// DetectConfig loads specifiedFile, or the first config found in the typical
// paths. Without any file the defaults are returned.
func DetectConfig(specifiedFile string) (*Config, error) {
	if specifiedFile != "" {
		return LoadConfig(specifiedFile)
	}
	for _, f := range configPaths() {
		if _, err := os.Stat(f); err == nil {
			return LoadConfig(f)
		}
	}
	if log.V(log.LV_CONFIG) {
		log.Infof("no %s in [ %s ], using defaults", CONFIG_NAME, strings.Join(configPaths(), "; "))
	}
	return DefaultConfig(), nil
}

func LoadConfig(file string) (*Config, error) {
	iniInstance, err := ini.Load(file)
	if err != nil {
		return nil, CONF_LOAD.Apply(err)
	}
	conf, err := parseConfig(iniInstance)
	if err != nil {
		return nil, err
	}
	conf.Source = file
	if log.V(log.LV_CONFIG) {
		log.Infoln("config loaded from", file)
	}
	return conf, nil
}

// ParseConfig reads a config from INI text.
func ParseConfig(r io.Reader) (*Config, error) {
	iniInstance, err := ini.Load(r)
	if err != nil {
		return nil, CONF_LOAD.Apply(err)
	}
	return parseConfig(iniInstance)
}

func parseConfig(iniInstance *ini.File) (*Config, error) {
	conf := DefaultConfig()
	sec, err := iniInstance.GetSection(CF_EXCHANGE)
	if err != nil {
		return nil, CONF_ERROR.Apply(err)
	}
	if err = sec.MapTo(conf); err != nil {
		return nil, CONF_ERROR.Apply(err)
	}
	return conf, conf.Validate()
}

func (c *Config) Validate() error {
	if err := prime.ValidateDigits(c.DigitCount); err != nil {
		return err
	}
	if c.Iterations < 1 {
		return CONF_ERROR.Apply("Iterations")
	}
	if c.SearchLimit < 1 {
		return CONF_ERROR.Apply("SearchLimit")
	}
	c.Method = strings.ToUpper(c.Method)
	if c.Method != METHOD_TEXTBOOK {
		known := false
		for _, m := range crypto.Methods {
			if c.Method == m {
				known = true
				break
			}
		}
		if !known {
			return crypto.NoSuchDHMethod.Apply(c.Method)
		}
	}
	return nil
}

// public for external handler
func CreateConfigTemplate(file string) (err error) {
	var f *os.File
	if file == "" {
		f = os.Stdout
	} else {
		f, err = os.OpenFile(file, os.O_CREATE|os.O_RDWR|os.O_TRUNC, 0644)
		if err != nil {
			return
		}
		defer f.Close()
	}
	defer f.Sync()
	return WriteConfigTemplate(f)
}

func WriteConfigTemplate(w io.Writer) error {
	iniInst := ini.Empty()
	sec, _ := iniInst.NewSection(CF_EXCHANGE)
	sec.Comment = strings.TrimSpace(_CONF_HEADER)
	if err := sec.ReflectFrom(DefaultConfig()); err != nil {
		return err
	}
	sec.Key("DigitCount").Comment = fmt.Sprintf("Decimal digits of the prime, %d..%d", prime.MinDigits, prime.MaxDigits)
	sec.Key("Method").Comment = "TEXTBOOK or one of " + strings.Join(crypto.Methods, ", ")
	sec.Key("StrictRoot").Comment = "Verify the full multiplicative order of the generator"
	_, err := iniInst.WriteTo(w)
	return err
}

func setFieldsDefaultValue(str interface{}) {
	typ := reflect.TypeOf(str)
	val := reflect.ValueOf(str)
	if typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
		val = val.Elem()
	}
	for i := 0; i < typ.NumField(); i++ {
		ft := typ.Field(i)
		fv := val.Field(i)
		imp := ft.Tag.Get("importable")
		if !ft.Anonymous && imp != "" {
			k := fv.Kind()
			switch k {
			case reflect.String:
				fv.SetString(imp)
			case reflect.Int:
				intVal, err := strconv.ParseInt(imp, 10, 0)
				if err == nil {
					fv.SetInt(intVal)
				}
			case reflect.Bool:
				boolVal, err := strconv.ParseBool(imp)
				if err == nil {
					fv.SetBool(boolVal)
				}
			default:
				panic(fmt.Errorf("unsupported %v", k))
			}
		}
	}
}

const _CONF_HEADER = `
# -------------------------------------------------
#   dhlab exchange configuration
# -------------------------------------------------
`
