package events

// Domain event codes. These are the vocabulary the search session speaks:
// controllers translate client actions into these, handlers translate them
// into state mutations.
const (
	LibrarySelected = "LIBRARY_SELECTED"
	MethodSelected  = "METHOD_SELECTED"

	DescriptionUpdated          = "DESCRIPTION_UPDATED"
	DescriptionImproveCompleted = "DESCRIPTION_IMPROVE_COMPLETED"

	KeywordsGenerateCompleted = "KEYWORDS_GENERATE_COMPLETED"
	KeywordAdded              = "KEYWORD_ADDED"
	KeywordRemoved            = "KEYWORD_REMOVED"

	FilterAdded   = "FILTER_ADDED"
	FilterUpdated = "FILTER_UPDATED"
	FilterRemoved = "FILTER_REMOVED"

	SearchStarted   = "SEARCH_STARTED"
	SearchCompleted = "SEARCH_COMPLETED"
	SearchPageNext  = "SEARCH_PAGE_NEXT"
	SearchPagePrev  = "SEARCH_PAGE_PREV"
	ResultSelected  = "RESULT_SELECTED"

	SessionCreated = "SESSION_CREATED"
	SessionLoaded  = "SESSION_LOADED"
	SessionSaved   = "SESSION_SAVED"

	ErrorRaised = "ERROR_RAISED"
)
