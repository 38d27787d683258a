package contactcard

// Status is the state of the last save-contact action. Exactly one is active.
type Status string

const (
	StatusIdle Status = "idle"
	// StatusSaving is held while the vCard download is dispatched.
	StatusSaving Status = "saving"
	StatusSaved  Status = "saved"
	// StatusSMSPrompting is held while the messaging app may be taking over.
	StatusSMSPrompting Status = "sms-prompting"
	// StatusComposing shows the manual compose form with an editable message.
	StatusComposing  Status = "composing"
	StatusSMSSent    Status = "sms-sent"
	StatusCopied     Status = "copied"
	StatusDownloaded Status = "downloaded"
)

// Visitor-facing status lines.
const (
	MessageSaved     = "Contact saved to your device."
	MessagePrompting = "Opening your messaging app with the template…"
	MessageCopied    = "Message copied to clipboard — open your messaging app and paste it into a new message."
	MessageTemplate  = "Message template downloaded. Fill in your name and email, then send it to Scott."
	MessageInvite    = "Follow-up invite downloaded. Add it to your calendar."
	MessageComposing = "The contact was saved. Edit your message below and add your name and email, then open your messaging app."
	MessageHandedOff = "Messaging app opened."
)

// Terminal reports whether the status ends the action.
func (s Status) Terminal() bool {
	switch s {
	case StatusSMSSent, StatusCopied, StatusDownloaded:
		return true
	}
	return false
}

// Lines returns the status lines shown under the save button for variant v.
func (s Status) Lines(v Variant) []string {
	switch s {
	case StatusSaved:
		return []string{MessageSaved}
	case StatusSMSPrompting:
		return []string{MessageSaved, MessagePrompting}
	case StatusComposing:
		return []string{MessageSaved}
	case StatusSMSSent:
		return []string{MessageSaved, MessageHandedOff}
	case StatusCopied:
		return []string{MessageSaved, MessageCopied}
	case StatusDownloaded:
		if v.HasInviteDownload() {
			return []string{MessageSaved, MessageInvite}
		}
		return []string{MessageSaved, MessageTemplate}
	default:
		return nil
	}
}

func (s Status) String() string {
	return string(s)
}
