// Package cli is the interactive terminal front end of ScanBiz.
//
// The REPL reads one command per line and dispatches it according to the
// active view of the view.Controller: the contact list, a contact's details,
// the contact edit form, the document list or a document being edited.
// Commands that change data go through the controller, which keeps the store
// and its storage mirror up to date.
//
// Destructive commands ask for confirmation on the terminal. Output goes to
// stdout; structured logs go to stderr.
package cli
