package output

import (
	"github.com/yarenty/cleaner/pkg/clean"
	"github.com/yarenty/cleaner/pkg/logger"
	"gopkg.in/yaml.v3"
)

func (f *formatter) formatYAML(summary clean.Summary) (string, error) {
	f.log.Debug("Formatting YAML output")

	// Reuse the JSON structure so both formats carry the same keys
	bytes, err := yaml.Marshal(f.convertSummary(summary))
	if err != nil {
		f.log.WithFields(logger.Fields{
			"error": err,
		}).Error("Failed to marshal YAML")
		return "", err
	}

	return string(bytes), nil
}
