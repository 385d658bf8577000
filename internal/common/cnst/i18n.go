package cnst

const (
	LangEN      = "en"
	LangBN      = "bn"
	LangDefault = LangEN

	// XLang overrides Accept-Language when present
	XLang = "X-Lang"
	// CtxKeyTranslator is the gin context key holding the request language
	CtxKeyTranslator = "translator"
)
