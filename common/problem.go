package common

import (
	"encoding/json"
	"fmt"
	"mime"
	"net/http"

	"github.com/moogar0880/problems"
)

type ProblemError struct {
	problems.DefaultProblem
}

func (o *ProblemError) Error() string {
	return fmt.Sprintf("%d %s: %s", o.ProblemStatus(), o.ProblemTitle(), o.Detail)
}

// ExceptionError is the error body Candlepin returns for failed requests.
type ExceptionError struct {
	Status         int    `json:"-"`
	DisplayMessage string `json:"displayMessage"`
	RequestUUID    string `json:"requestUuid,omitempty"`
}

func (o *ExceptionError) Error() string {
	return fmt.Sprintf("%d %s: %s", o.Status, http.StatusText(o.Status), o.DisplayMessage)
}

func CheckResponse(res *http.Response, expected ...int) error {
	for _, exp := range expected {
		if res.StatusCode == exp {
			return nil
		}
	}

	mt, _, _ := mime.ParseMediaType(res.Header.Get("Content-Type"))

	switch mt {
	case problems.ProblemMediaType:
		var prob ProblemError

		if err := DecodeJSONBody(res, &prob.DefaultProblem); err != nil {
			return fmt.Errorf(
				"could not decode problem response (status %d): %w",
				res.StatusCode,
				err,
			)
		}

		return &prob
	case JSONMediaType:
		body, err := ReadBody(res)
		if err != nil {
			return err
		}

		exc := ExceptionError{Status: res.StatusCode}
		if err := json.Unmarshal(body, &exc); err == nil && exc.DisplayMessage != "" {
			return &exc
		}
	default:
		res.Body.Close()
	}

	return fmt.Errorf("unexpected HTTP response code %d", res.StatusCode)
}
