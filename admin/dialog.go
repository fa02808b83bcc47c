package admin

// DialogMode is the state of the create/edit dialog: exactly one of
// Closed, Creating or Editing.
type DialogMode interface {
	isDialogMode()
}

type Closed struct{}

type Creating struct{}

// Editing holds the id of the row being edited
type Editing struct {
	ID int64
}

func (Closed) isDialogMode()   {}
func (Creating) isDialogMode() {}
func (Editing) isDialogMode()  {}

// IsOpen reports whether the dialog is showing
func IsOpen(mode DialogMode) bool {
	switch mode.(type) {
	case Creating, Editing:
		return true
	}
	return false
}
