// Package dispatch performs the side effects of the contact card: file
// downloads, hand-off navigation to messaging apps and clipboard writes.
//
// Effects are described as Targets and executed by a Dispatcher against two
// sinks, a Browser and a Clipboard. The sinks are interfaces so the same flow
// runs in very different environments:
//
//   - Plan records actions for the card page script to replay in the browser.
//   - DirBrowser writes downloads into a directory and opens URLs with the OS
//     opener command.
//   - SystemClipboard writes to the OS clipboard.
//
// # Downloads
//
// A Download target is first fetched through the configured Fetcher. On
// success the bytes become a transient handle in the BlobStore and the
// Browser downloads the handle URL; the handle is released once the grace
// delay has passed. When the fetch fails the Browser downloads the original
// URL directly instead:
//
//	plan := dispatch.NewPlan()
//	d, _ := dispatch.New(plan, dispatch.WithFetcher(source), dispatch.WithBlobStore(blobs))
//	res, err := d.Dispatch(ctx, dispatch.Download{URL: "/card.vcf", Filename: "card.vcf"})
//
// # Ordered candidates
//
// FirstAccepted tries candidates in order and reports the first one whose
// attempt succeeded:
//
//	acc, err := dispatch.FirstAccepted(ctx, urls, func(ctx context.Context, u string) error {
//		_, err := d.Dispatch(ctx, dispatch.Navigate{URL: u})
//		return err
//	})
package dispatch
