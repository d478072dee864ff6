package i18n

var ALLOW_LANG = map[string]bool{
	"en":    true,
	"zh-CN": true,
}

const DEFAULT_LANG = "en"

const (
	ERROR_INTERNAL          = "error.internal"
	ERROR_INVALIDARGUMENT   = "error.invalidargument"
	ERROR_NOT_FOUND         = "error.notfound"
	ERROR_TOO_MANY_REQUESTS = "error.too_many_requests"

	ERROR_FILE_TOO_LARGE      = "error.file.too_large"
	ERROR_FILE_TYPE_UNSUPPORT = "error.file.type.unsupport"
	ERROR_FILE_NOT_SELECTED   = "error.file.not_selected"

	ERROR_CHAT_STILL_PROCESSING      = "error.chat.still_processing"
	ERROR_CHAT_CONVERSATION_REQUIRED = "error.chat.conversation_required"
	ERROR_CHAT_ENGINE_REQUIRED       = "error.chat.engine_required"
	ERROR_CHAT_QUESTION_REQUIRED     = "error.chat.question_required"

	ERROR_FIELD_REQUIRED = "error.field.required"
	ERROR_FIELD_TOO_LONG = "error.field.too_long"

	ERROR_TASK_ALREADY_WATCHED = "error.task.already_watched"

	MESSAGE_TASK_FAILED           = "message.task.failed"
	MESSAGE_TASK_COMPLETED        = "message.task.completed"
	MESSAGE_CHAT_FILTER_INFO      = "message.chat.filter_info"
	MESSAGE_CHAT_ENGINE_INFO      = "message.chat.engine_info"
	MESSAGE_CHAT_NO_SOURCES       = "message.chat.no_sources"
	MESSAGE_CHAT_NEW_CONVERSATION = "message.chat.new_conversation"
)
