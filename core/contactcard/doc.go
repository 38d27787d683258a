// Package contactcard implements the save-contact flow of the digital
// business card.
//
// A Session downloads the vCard and then, depending on the card Variant and
// the visitor's device profile, hands off to the messaging app with a
// pre-filled message or downloads a text template or calendar invite. The
// progress of the action is a single Status value:
//
//	idle → saving → saved → sms-prompting → composing | sms-sent
//	                      → downloaded
//	composing → copied (SendMessage) | idle (CloseComposer)
//
// Side effects go through a dispatch.Dispatcher, so the same flow drives
// the HTTP card page (recorded plans) and the terminal client (files,
// opener command, system clipboard).
//
//	d, _ := dispatch.New(dispatch.NewPlan())
//	s, _ := contactcard.NewSession(cfg, d)
//	defer s.Close()
//	status, _ := s.SaveContact(ctx, useragent.Classify(ua, touchPoints))
//
// Nothing tells the page whether the messaging app actually opened. After
// PromptDelay without ConfirmHandoff the session assumes it did not and
// moves to composing.
package contactcard
