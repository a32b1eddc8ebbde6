package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"
)

const base36Digits = "0123456789abcdefghijklmnopqrstuvwxyz"

// RandomBase36 returns n cryptographically random base36 characters.
func RandomBase36(n int) string {
	var b strings.Builder
	b.Grow(n)
	max := big.NewInt(int64(len(base36Digits)))
	for i := 0; i < n; i++ {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails when the OS entropy source is
			// broken; fall back to a time-derived digit.
			b.WriteByte(base36Digits[time.Now().UnixNano()%36])
			continue
		}
		b.WriteByte(base36Digits[idx.Int64()])
	}
	return b.String()
}

// NewBankTransactionID returns "TX" + base36 millis + a random base36
// tie-break so rapid successive creates cannot collide.
func NewBankTransactionID() string {
	millis := strconv.FormatInt(time.Now().UnixMilli(), 36)
	return "TX" + strings.ToUpper(millis+RandomBase36(4))
}

// NewLoanTransactionID returns "LTX-<last 6 digits of millis>-<3 random digits>".
func NewLoanTransactionID() string {
	millis := time.Now().UnixMilli() % 1_000_000
	n, err := rand.Int(rand.Reader, big.NewInt(1000))
	var suffix int64
	if err == nil {
		suffix = n.Int64()
	} else {
		suffix = time.Now().UnixNano() % 1000
	}
	return fmt.Sprintf("LTX-%06d-%03d", millis, suffix)
}
