package response

// 错误码的前三位是 HTTP 状态码
var (
	ErrInvalidRequest = newError(40001, "请求参数错误")
	ErrMissingID      = newError(40002, "缺少 ID")
	ErrNotFound       = newError(40401, "资源不存在")
	ErrTripNotFound   = newError(40402, "游记不存在")
	ErrEntryNotFound  = newError(40403, "日记条目不存在")
	ErrServerInternal = newError(50001, "服务器内部错误")
	ErrStore          = newError(50002, "存储后端错误")
	ErrGeocode        = newError(50003, "地理编码失败")
	ErrExport         = newError(50004, "导出失败")
	ErrUpload         = newError(50005, "生成上传地址失败")
	ErrUnavailable    = newError(50301, "功能未配置")
)
