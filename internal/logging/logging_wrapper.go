package logging

import (
	"net/http"

	"github.com/sirupsen/logrus"
)

func LoggingWrapper(
	loggingName string,
	log *logrus.Logger,
	handler func(http.ResponseWriter, *http.Request, *LogData) error,
) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		log.Infof("Handler.%v.Start", loggingName)

		logData := NewLogData(log)
		req = req.WithContext(WithLogData(req.Context(), logData))

		endTimer := logData.AddTiming("duration")
		err := handler(w, req, logData)
		endTimer()
		if err != nil {
			logData.Log().WithError(err).Errorf("Handler.%v.Error", loggingName)
			return
		}

		logData.Log().Infof("Handler.%v.Complete", loggingName)
	}
}

// Middleware attaches a fresh LogData to every request that passes through
// next and logs one line per request once it completes.
func Middleware(loggingName string, log *logrus.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		logData := NewLogData(log)
		logData.AddData("method", req.Method)
		logData.AddData("path", req.URL.Path)

		endTimer := logData.AddTiming("duration")
		next.ServeHTTP(w, req.WithContext(WithLogData(req.Context(), logData)))
		endTimer()

		logData.Log().Infof("%v.Request.Complete", loggingName)
	})
}
