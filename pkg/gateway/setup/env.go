package setup

const (
	EnvLlmBaseUrl         = "LLM_BASE_URL"
	EnvLlmApiKey          = "LLM_API_KEY"
	EnvLlmModel           = "LLM_MODEL"
	EnvImageBaseUrl       = "IMAGE_BASE_URL"
	EnvImageModel         = "IMAGE_MODEL"
	EnvHfApiKey           = "HF_API_KEY"
	EnvApiIpPort          = "API_IP_PORT"
	EnvListTimeout        = "LIST_TIMEOUT"
	EnvChatTimeout        = "CHAT_TIMEOUT"
	EnvDocumentTimeout    = "DOCUMENT_TIMEOUT"
	EnvImageTimeout       = "IMAGE_TIMEOUT"
	EnvOutputDir          = "OUTPUT_DIR"
	EnvStaticDir          = "STATIC_DIR"
	EnvPdfFontPath        = "PDF_FONT_PATH"
	EnvModelsCacheTTL     = "MODELS_CACHE_TTL"
	EnvPinataJwt          = "PINATA_JWT"
	EnvArticleConcurrency = "ARTICLE_CONCURRENCY"
	EnvLogLevel           = "LOG_LEVEL"
	EnvLogFormat          = "LOG_FORMAT"
)
