package response

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/quka-ai/course-console/pkg/errors"
	"github.com/quka-ai/course-console/pkg/i18n"
	"github.com/quka-ai/course-console/pkg/utils"
)

func ProvideResponseLocalizer(l i18n.Localizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("i18n", l)
	}
}

func InjectResponseLocalizer(c *gin.Context) i18n.Localizer {
	return c.MustGet("i18n").(i18n.Localizer)
}

// 常量定义
const (
	RequestIDKey = "request_id"
	ResponseKey  = "response_key"
)

// Response 响应结构体定义
type Response struct {
	Meta Meta        `json:"meta"`
	Data interface{} `json:"data"`
}

// Meta 响应meta定义
type Meta struct {
	Code      int    `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
}

// ListResponse 列表数据
type ListResponse[T any] struct {
	List  []T `json:"list"`
	Total int `json:"total"`
}

func NewList[T any](list []T) ListResponse[T] {
	if list == nil {
		list = []T{}
	}
	return ListResponse[T]{List: list, Total: len(list)}
}

func GetLangFromRequestOrDefault(c *gin.Context) string {
	return utils.MatchLang(c.Request.Header.Get("Accept-Language"))
}

// APIError api响应失败
func APIError(c *gin.Context, err error) {
	c.Abort()
	l := InjectResponseLocalizer(c)

	res := c.MustGet(ResponseKey).(*Response)
	var httpStatus int
	if cerrptr, ok := err.(*errors.CustomizedError); !ok {
		res.Meta.Code = http.StatusInternalServerError
		res.Meta.Message = err.Error()
		httpStatus = res.Meta.Code
	} else {
		res.Meta.Code = cerrptr.GetCode()
		if res.Meta.Code == 0 {
			res.Meta.Code = http.StatusInternalServerError
		}
		// message ids are localized per request, rendered messages pass through
		res.Meta.Message = l.GetWithData(GetLangFromRequestOrDefault(c), cerrptr.Message(), cerrptr.Data())
		httpStatus = res.Meta.Code
	}

	c.JSON(httpStatus, res)
	printErrorLog(c, res, err)
}

func printErrorLog(c *gin.Context, res *Response, err error) {
	detail := err.Error()
	if ce, ok := err.(*errors.CustomizedError); ok {
		detail = ce.Detail()
	}
	slog.Error("response error",
		slog.String("request_uri", c.Request.URL.Path),
		slog.String("request_id", res.Meta.RequestID),
		slog.Int64("end_time", time.Now().Unix()),
		slog.Int("code", res.Meta.Code),
		slog.String("error", detail))
}

func printSuccessLog(c *gin.Context, res *Response) {
	slog.Debug("request success",
		slog.String("request_uri", c.Request.URL.Path),
		slog.String("request_id", res.Meta.RequestID),
		slog.Int64("end_time", time.Now().Unix()),
		slog.String("params", c.Request.URL.Query().Encode()))
}

// APISuccess api响应成功
func APISuccess(c *gin.Context, response interface{}) {
	c.Abort()
	res := c.MustGet(ResponseKey).(*Response)
	if response != nil {
		res.Data = response
	}
	c.JSON(http.StatusOK, res)
	printSuccessLog(c, res)
}

// NewResponse 为每个请求生成 request id
func NewResponse() gin.HandlerFunc {
	return func(c *gin.Context) {
		resp := &Response{
			Meta: Meta{
				RequestID: utils.RandomStr(16),
			},
		}
		c.Set(ResponseKey, resp)
		c.Set(RequestIDKey, resp.Meta.RequestID)
	}
}
