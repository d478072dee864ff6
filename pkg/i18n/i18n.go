package i18n

import (
	"bytes"
	"embed"
	"log/slog"
	"sync"
	"text/template"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

var (
	//go:embed *.toml
	f embed.FS
)

type Localizer struct {
	bundle   *i18n.Bundle
	registry map[string]*i18n.Localizer
}

var (
	defaultMu   sync.RWMutex
	localizer   = NewLocalizer(DEFAULT_LANG, "zh-CN")
	defaultLang = DEFAULT_LANG
)

func NewLocalizer(languages ...string) Localizer {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	for _, lang := range languages {
		path := lang + ".toml"
		if _, err := bundle.LoadMessageFileFS(f, path); err != nil {
			slog.Error("Failed to load i18n message config", slog.String("error", err.Error()), slog.String("lang", lang), slog.String("file", path))
		}
	}

	l := Localizer{
		bundle:   bundle,
		registry: make(map[string]*i18n.Localizer),
	}
	for _, lang := range languages {
		l.registry[lang] = i18n.NewLocalizer(l.bundle, lang)
	}
	return l
}

func (l Localizer) Get(lang string, id string) string {
	return l.GetWithData(lang, id, nil)
}

func (l Localizer) GetWithData(lang, id string, data map[string]interface{}) string {
	localizer := l.registry[lang]
	if localizer == nil {
		localizer = l.registry[DEFAULT_LANG]
	}
	if localizer == nil {
		return render(id, data)
	}
	cfg := &i18n.LocalizeConfig{
		DefaultMessage: &i18n.Message{
			ID:    id,
			Other: id,
		},
		TemplateData: data,
	}
	str, err := localizer.Localize(cfg)
	if err != nil {
		slog.Debug("failed to get localizer message", slog.String("message", "GetWithData"), slog.String("id", id), slog.String("error", err.Error()))
		if str == "" {
			return render(id, data)
		}
	}

	return str
}

func render(text string, data map[string]interface{}) string {
	if len(data) == 0 {
		return text
	}
	tpl, err := template.New("msg").Parse(text)
	if err != nil {
		return text
	}
	var buf bytes.Buffer
	if err = tpl.Execute(&buf, data); err != nil {
		return text
	}
	return buf.String()
}

// Setup selects the language used by T and TWithData.
func Setup(lang string) {
	if !ALLOW_LANG[lang] {
		lang = DEFAULT_LANG
	}
	defaultMu.Lock()
	defaultLang = lang
	defaultMu.Unlock()
}

func Lang() string {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLang
}

func T(id string) string {
	return localizer.Get(Lang(), id)
}

func TWithData(id string, data map[string]interface{}) string {
	return localizer.GetWithData(Lang(), id, data)
}
