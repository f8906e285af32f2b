package models

// View is the screen currently active in the application.
type View string

const (
	ViewList    View = "LIST"
	ViewScan    View = "SCAN"
	ViewEdit    View = "EDIT"
	ViewDetails View = "DETAILS"
	ViewDocList View = "DOC_LIST"
	ViewDocEdit View = "DOC_EDIT"
)
