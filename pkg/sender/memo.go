package sender

import "github.com/stellar/go/txnbuild"

// AnonAppID is the app identifier used when none is configured.
const AnonAppID = "anon"

// maxMemoLength is the ledger's text memo limit in bytes.
const maxMemoLength = 28

// buildMemo renders the "1-<appid>-<suffix>" memo carried by every
// transaction this sender issues. The leading 1 is the memo format
// version.
func buildMemo(appID, suffix string) (txnbuild.MemoText, error) {
	memo := "1-" + appID + "-" + suffix
	if len(memo) > maxMemoLength {
		return "", ErrMemoTooLong
	}
	return txnbuild.MemoText(memo), nil
}
