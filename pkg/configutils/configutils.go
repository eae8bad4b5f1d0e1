package configutils

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// LoadFile reads the configuration file at filePath into the provided viper,
// validating that the file exists and that viper supports its format.
func LoadFile(v *viper.Viper, filePath string) error {
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return err
	}

	ext := strings.ToLower(filepath.Ext(filePath))
	if ext == "" {
		return errors.New("configuration file has no extension")
	}

	supported := false
	for _, e := range viper.SupportedExts {
		if ext[1:] == e {
			supported = true
			break
		}
	}
	if !supported {
		return fmt.Errorf("unsupported configuration file extension: %s", ext)
	}

	v.SetConfigType(ext[1:])
	v.SetConfigFile(filePath)
	return v.ReadInConfig()
}
