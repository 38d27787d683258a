// Package logger builds slog loggers for the card service and provides
// attribute helpers shared by every package.
//
// # Basic Usage
//
//	log := logger.New(
//		logger.WithDevelopment("contactcard"),
//		logger.WithLevel(slog.LevelDebug),
//	)
//
//	log.Info("server starting",
//		logger.Component("server"),
//		logger.Event("startup"),
//	)
//
// WithProduction and WithStaging switch to JSON output at info level. Each
// environment option tags records with the service name and environment.
//
// # Context Attributes
//
// Extractors copy request-scoped values into every *Context call:
//
//	log := logger.New(
//		logger.WithProduction("contactcard"),
//		logger.WithContextExtractors(func(ctx context.Context) (slog.Attr, bool) {
//			id := middleware.GetRequestID(ctx)
//			return logger.RequestID(id), id != ""
//		}),
//	)
//
// # Attribute Helpers
//
// Helpers such as Error, RequestID, Scheme and Filename return an empty
// attribute for empty input, which slog drops:
//
//	log.Warn("sms hand-off rejected",
//		logger.Scheme(string(scheme)),
//		logger.Error(err),
//	)
package logger
