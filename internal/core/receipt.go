package core

import (
	"crypto/rand"
	"fmt"
	"time"
)

const receiptAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// ReceiptPrefix maps a record kind to its receipt number prefix.
func ReceiptPrefix(kind Kind) string {
	switch kind {
	case KindRawMaterial:
		return "MP"
	case KindProduction:
		return "PROD"
	default:
		return "VE"
	}
}

// NewReceiptID produces a human-readable receipt number of the form
// {PREFIX}-{YYMMDD}-{RAND4}, where RAND4 is a 4-character base-36 uppercase
// token. Uniqueness is probabilistic and not enforced: the receipt number is
// a display label for search and printing, never an addressing key.
func NewReceiptID(kind Kind, now time.Time) string {
	return fmt.Sprintf("%s-%s-%s", ReceiptPrefix(kind), now.Format("060102"), randomToken(4))
}

func randomToken(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		// Fall back to timestamp digits if the random source fails.
		ns := fmt.Sprintf("%d", time.Now().UnixNano())
		return ns[len(ns)-n:]
	}
	out := make([]byte, n)
	for i, b := range buf {
		out[i] = receiptAlphabet[int(b)%len(receiptAlphabet)]
	}
	return string(out)
}
