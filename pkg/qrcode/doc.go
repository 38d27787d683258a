// Package qrcode renders PNG QR codes for sharing the card in person.
//
// Codes use medium error correction. Generate returns raw PNG bytes for the
// /qr.png endpoint and the CLI; GenerateBase64Image returns a data URI that
// can be embedded straight into the card page:
//
//	src, err := qrcode.GenerateBase64Image("https://card.example.com", 0)
//	if err != nil {
//		return err
//	}
//	data.QRCode = template.URL(src)
package qrcode
