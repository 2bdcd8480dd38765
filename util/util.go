package util

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"
)

// NewRequestID returns a random correlation id attached to every request's
// log entries.
func NewRequestID() string {
	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	return base64.RawURLEncoding.EncodeToString(buf)
}

// SetResponse builds the standard JSON response envelope.
func SetResponse(data interface{}, status int, message string) map[string]interface{} {
	response := make(map[string]interface{})
	response["data"] = nil
	if data != nil {
		response["data"] = data
	}
	response["status"] = status
	response["message"] = message
	return response
}

// PrettyPrint writes data as indented JSON to stdout.
func PrettyPrint(data ...interface{}) error {
	fmt.Println()
	byteData, err := json.MarshalIndent(data[len(data)-1], "", " ")
	if err != nil {
		return err
	}
	if len(data) > 1 {
		fmt.Println(data[:len(data)-1]...)
	}
	fmt.Println(string(byteData))
	fmt.Println()
	return nil
}

// Recover swallows a panic in the calling goroutine.
func Recover() {
	if r := recover(); r != nil {
		logrus.Error("recovered from panic: ", r)
	}
}

// RecoverGoroutinePanic logs a panic from a background goroutine. The
// optional error channel receives a marker error when provided.
func RecoverGoroutinePanic(errChan chan<- error) {
	if r := recover(); r != nil {
		logrus.Errorf("recovered from go routine panic: %v", r)
		if errChan != nil {
			errChan <- fmt.Errorf("goroutine panic: %v", r)
		}
	}
}
