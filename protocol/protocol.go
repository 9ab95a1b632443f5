package protocol

import (
	"encoding/json"
	"io"
	"strings"
	"time"
)

type Finger string

const (
	ThumbRight  Finger = "thumb_right"
	IndexRight  Finger = "index_right"
	MiddleRight Finger = "middle_right"
	RingRight   Finger = "ring_right"
	PinkyRight  Finger = "pinky_right"
	ThumbLeft   Finger = "thumb_left"
	IndexLeft   Finger = "index_left"
	MiddleLeft  Finger = "middle_left"
	RingLeft    Finger = "ring_left"
	PinkyLeft   Finger = "pinky_left"
)

var Fingers = []Finger{
	ThumbRight, IndexRight, MiddleRight, RingRight, PinkyRight,
	ThumbLeft, IndexLeft, MiddleLeft, RingLeft, PinkyLeft,
}

func (f Finger) Valid() bool {
	for _, known := range Fingers {
		if f == known {
			return true
		}
	}
	return false
}

// EnrollReq is the body posted to the enrollment service.
type EnrollReq struct {
	CPF      string `json:"cpf"`
	Template string `json:"template"`
	Finger   string `json:"finger"`
	UnitCode string `json:"unit_code"`
}

type Biometric struct {
	ID        int       `json:"id"`
	PersonID  int       `json:"person_id"`
	Finger    Finger    `json:"finger"`
	CreatedAt time.Time `json:"created_at"`
}

type EnrollRes struct {
	ID        int       `json:"id"`
	Message   string    `json:"message"`
	Biometric Biometric `json:"biometric"`
}

type DeleteReq struct {
	CPF    string `json:"cpf"`
	Finger string `json:"finger"`
}

type ErrorRes struct {
	Error    string `json:"error"`
	Solution string `json:"solution,omitempty"`
	Details  string `json:"details,omitempty"`
}

func ReadEnrollReq(r io.Reader) (*EnrollReq, error) {
	var req EnrollReq
	err := json.NewDecoder(r).Decode(&req)
	return &req, err
}

func ReadDeleteReq(r io.Reader) (*DeleteReq, error) {
	var req DeleteReq
	err := json.NewDecoder(r).Decode(&req)
	return &req, err
}

func ReadEnrollRes(r io.Reader) (*EnrollRes, error) {
	var res EnrollRes
	err := json.NewDecoder(r).Decode(&res)
	return &res, err
}

func ReadErrorRes(r io.Reader) (*ErrorRes, error) {
	var res ErrorRes
	err := json.NewDecoder(r).Decode(&res)
	return &res, err
}

func WriteEnrollReq(w io.Writer, req *EnrollReq) error {
	return json.NewEncoder(w).Encode(req)
}

func WriteErrorRes(w io.Writer, message, solution string) error {
	return json.NewEncoder(w).Encode(&ErrorRes{Error: message, Solution: solution})
}

func WriteErrorDetails(w io.Writer, message, details string) error {
	return json.NewEncoder(w).Encode(&ErrorRes{Error: message, Details: details})
}

// Decision is the verifier's answer.
type Decision string

const (
	Granted Decision = "SIM"
	Denied  Decision = "NAO"
	Unknown Decision = ""
)

// ParseDecision maps verifier output to a Decision. Whitespace must
// already be stripped.
func ParseDecision(out string) Decision {
	switch strings.ToUpper(out) {
	case string(Granted):
		return Granted
	case string(Denied):
		return Denied
	default:
		return Unknown
	}
}

func (d Decision) String() string {
	switch d {
	case Granted:
		return "granted"
	case Denied:
		return "denied"
	default:
		return "unknown"
	}
}
