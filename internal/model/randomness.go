package model

// RandomnessRequest is published to the randomness provider. The provider answers
// with a RandomnessFulfillment for the same RequestID.
type RandomnessRequest struct {
	RequestID string `json:"request_id"`
	Seed      string `json:"seed"`
	Queue     string `json:"queue"`
	Callback  string `json:"callback"`
}

type RandomnessFulfillment struct {
	RequestID  string `json:"request_id"`
	Randomness string `json:"randomness"`
	Signature  string `json:"signature"`
}

// NativePrice is a quote of the native currency in USD, equal to Price * 10^Expo.
type NativePrice struct {
	Price       int64 `json:"price"`
	Expo        int32 `json:"expo"`
	PublishTime int64 `json:"publish_time"`
}
