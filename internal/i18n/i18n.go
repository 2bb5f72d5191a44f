// Package i18n localizes the analyzer's suggestions and crack time strings
// from the YAML files embedded in locales/.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"sync"

	"github.com/alvinbaena/pwd-analyzer/pkg/strength"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var localeFS embed.FS

var (
	bundleOnce sync.Once
	bundle     *i18n.Bundle
	bundleErr  error
)

func loadBundle() (*i18n.Bundle, error) {
	bundleOnce.Do(func() {
		b := i18n.NewBundle(language.English)
		b.RegisterUnmarshalFunc("yaml", yaml.Unmarshal)

		files, err := fs.ReadDir(localeFS, "locales")
		if err != nil {
			bundleErr = err
			return
		}
		for _, f := range files {
			if f.IsDir() {
				continue
			}
			if _, err = b.LoadMessageFileFS(localeFS, "locales/"+f.Name()); err != nil {
				bundleErr = fmt.Errorf("load %s: %w", f.Name(), err)
				return
			}
		}
		bundle = b
	})

	return bundle, bundleErr
}

// Localizer implements strength.Localizer for one language. Messages missing
// from that language fall back to English.
type Localizer struct {
	lang      string
	localizer *i18n.Localizer
}

var _ strength.Localizer = (*Localizer)(nil)

// New returns a Localizer for lang, a BCP 47 tag such as "es" or "en-US".
// Unsupported languages resolve to English.
func New(lang string) (*Localizer, error) {
	if _, err := language.Parse(lang); err != nil {
		return nil, fmt.Errorf("invalid locale %q: %w", lang, err)
	}

	b, err := loadBundle()
	if err != nil {
		return nil, err
	}

	return &Localizer{lang: lang, localizer: i18n.NewLocalizer(b, lang, language.English.String())}, nil
}

func (l *Localizer) Lang() string {
	return l.lang
}

func (l *Localizer) Localize(messageID string, data map[string]string) string {
	msg, err := l.localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    messageID,
		TemplateData: data,
	})
	if err != nil {
		log.Debug().Err(err).Msgf("no translation for %s", messageID)
		return strength.English{}.Localize(messageID, data)
	}
	return msg
}

// Available lists the bundled language tags.
func Available() []string {
	b, err := loadBundle()
	if err != nil {
		return nil
	}

	var tags []string
	for _, t := range b.LanguageTags() {
		tags = append(tags, t.String())
	}
	sort.Strings(tags)
	return tags
}
