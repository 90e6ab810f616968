package views

// ViewState is the size and status line shared by the views; embed it
type ViewState struct {
	Width      int
	Height     int
	Message    string
	MessageErr bool
}

// SetSize updates the view dimensions
func (s *ViewState) SetSize(width, height int) {
	s.Width = width
	s.Height = height
}

// SetMessage shows msg on the status line, in the error style when isErr
func (s *ViewState) SetMessage(msg string, isErr bool) {
	s.Message = msg
	s.MessageErr = isErr
}

// ClearMessage empties the status line
func (s *ViewState) ClearMessage() {
	s.SetMessage("", false)
}
