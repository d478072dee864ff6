package utils

import (
	"fmt"
	"net/http"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"

	"github.com/quka-ai/course-console/pkg/errors"
	"github.com/quka-ai/course-console/pkg/i18n"
)

const CONVERSATION_ID_PREFIX = "chat"

const randomSeed = "0123456789abcdefghijklmnopqrstuvwxyz"

// RandomStr 随机字符串，取自 uuid v4 的随机字节
func RandomStr(l int) string {
	var sb strings.Builder
	sb.Grow(l)
	for sb.Len() < l {
		id := uuid.New()
		for _, b := range id[:] {
			if sb.Len() == l {
				break
			}
			sb.WriteByte(randomSeed[int(b)%len(randomSeed)])
		}
	}
	return sb.String()
}

// NewConversationID 生成形如 chat_<unix毫秒>_<6位随机串> 的会话ID
func NewConversationID() string {
	return fmt.Sprintf("%s_%d_%s", CONVERSATION_ID_PREFIX, time.Now().UnixMilli(), RandomStr(6))
}

func BindArgsWithGin(c *gin.Context, req interface{}) error {
	err := c.ShouldBindWith(req, binding.Default(c.Request.Method, c.ContentType()))
	if err != nil {
		return errors.New(fmt.Sprintf("Gin.ShouldBindWith.%s.%s", c.Request.Method, c.Request.URL.Path), i18n.T(i18n.ERROR_INVALIDARGUMENT), err).Code(http.StatusBadRequest)
	}
	return nil
}

// Language represents a language and its weight (priority)
type Language struct {
	Tag    string  // Language tag, e.g., "en-US"
	Weight float64 // Weight (priority), default is 1.0
}

var acceptLanguageRe = regexp.MustCompile(`([a-zA-Z\-]+)(?:;q=([0-9\.]+))?`)

// ParseAcceptLanguage parses the Accept-Language header and returns a sorted list of languages by weight.
func ParseAcceptLanguage(header string) []Language {
	if header == "" {
		return []Language{}
	}

	var languages []Language
	for _, match := range acceptLanguageRe.FindAllStringSubmatch(header, -1) {
		weight := 1.0
		if match[2] != "" {
			if parsed, err := strconv.ParseFloat(match[2], 64); err == nil {
				weight = parsed
			}
		}
		languages = append(languages, Language{Tag: match[1], Weight: weight})
	}

	sort.SliceStable(languages, func(i, j int) bool {
		return languages[i].Weight > languages[j].Weight
	})
	return languages
}

// MatchLang picks the first preferred language the console ships messages for.
func MatchLang(header string) string {
	for _, l := range ParseAcceptLanguage(header) {
		if i18n.ALLOW_LANG[l.Tag] {
			return l.Tag
		}
		if strings.HasPrefix(strings.ToLower(l.Tag), "zh") {
			return "zh-CN"
		}
		if strings.HasPrefix(strings.ToLower(l.Tag), "en") {
			return "en"
		}
	}
	return i18n.DEFAULT_LANG
}
