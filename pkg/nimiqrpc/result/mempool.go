package result

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// MempoolInfo is a summary of the mempool. Transactions are grouped in
// buckets by fee per byte, TransactionsPerBucket maps a bucket (its lowest
// fee per byte) to the number of transactions in it.
type MempoolInfo struct {
	Total                 int
	Buckets               []int
	TransactionsPerBucket map[int]int
}

type mempoolInfoAux struct {
	Total   int   `json:"total"`
	Buckets []int `json:"buckets"`
}

// MarshalJSON implements the json.Marshaler interface.
func (m MempoolInfo) MarshalJSON() ([]byte, error) {
	obj := make(map[string]interface{}, len(m.TransactionsPerBucket)+2)
	obj["total"] = m.Total
	obj["buckets"] = m.Buckets
	for k, v := range m.TransactionsPerBucket {
		obj[strconv.Itoa(k)] = v
	}
	return json.Marshal(obj)
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (m *MempoolInfo) UnmarshalJSON(data []byte) error {
	var aux mempoolInfoAux
	if err := unmarshalStrict(data, &aux, "total", "buckets"); err != nil {
		return err
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	perBucket := make(map[int]int)
	for k, raw := range obj {
		bucket, err := strconv.Atoi(k)
		if err != nil {
			continue
		}
		var count int
		if err := json.Unmarshal(raw, &count); err != nil {
			return fmt.Errorf("bucket %s: %w", k, err)
		}
		perBucket[bucket] = count
	}
	m.Total = aux.Total
	m.Buckets = aux.Buckets
	m.TransactionsPerBucket = perBucket
	return nil
}
