package redis

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"gotokenbridge/config"
	"gotokenbridge/types"

	"github.com/gomodule/redigo/redis"
	"github.com/google/uuid"
)

var pool *redis.Pool

func timeoutDialOptions() []redis.DialOption {
	return []redis.DialOption{
		redis.DialConnectTimeout(5 * time.Second),
		redis.DialReadTimeout(5 * time.Second),
		redis.DialWriteTimeout(5 * time.Second),
	}
}

func Init() {
	redisAddr := fmt.Sprintf("%s:%d", config.Config.Server.RedisHost, config.Config.Server.RedisPort)
	pool = &redis.Pool{
		MaxIdle: 5,
		Dial:    func() (redis.Conn, error) { return redis.Dial("tcp", redisAddr, timeoutDialOptions()...) },
	}
}

// note that multiple sets should not contain one operation
func UpsertBridgeOperation(op *types.BridgeOperation) error {
	conn := pool.Get()
	defer conn.Close()

	if op == nil {
		return errors.New("null object to store")
	}

	if op.Status == "" {
		return errors.New("bridge operation cannot have empty status")
	}

	if op.ID == "" {
		op.ID = uuid.New().String()
	}
	recordKey := fmt.Sprintf("bridgeop:%s:%s", op.Status, op.ID)

	opJSON, err := json.Marshal(op)
	if err != nil {
		return fmt.Errorf("cannot marshal bridge operation to JSON: %s", err.Error())
	}

	_, err = conn.Do("SET", recordKey, opJSON)
	if err != nil {
		log.Printf("error Redis SET: %s", err.Error())
		return err
	}

	// also add the key to the corresponding SET
	_, err = conn.Do("SADD", config.RedisStatusSets[op.Status], recordKey)
	if err != nil {
		log.Printf("error Redis SADD: %s", err.Error())
		return err
	}

	return nil
}

func ChangeBridgeOperationStatus(op *types.BridgeOperation, prevStatus string) error {
	conn := pool.Get()
	defer conn.Close()

	if op == nil {
		return errors.New("null object to store")
	}

	if op.Status == "" {
		return errors.New("bridge operation cannot have empty status")
	}

	if op.ID == "" {
		op.ID = uuid.New().String()
	}

	prevRecordKey := fmt.Sprintf("bridgeop:%s:%s", prevStatus, op.ID)
	recordKey := fmt.Sprintf("bridgeop:%s:%s", op.Status, op.ID)

	opJSON, err := json.Marshal(op)
	if err != nil {
		return fmt.Errorf("cannot marshal bridge operation to JSON: %s", err.Error())
	}

	_, err = conn.Do("SREM", config.RedisStatusSets[prevStatus], prevRecordKey)
	if err != nil {
		log.Printf("error Redis SREM: %s", err.Error())
		return err
	}

	_, err = conn.Do("DEL", prevRecordKey)
	if err != nil {
		log.Printf("error Redis DEL: %s", err.Error())
		return err
	}

	_, err = conn.Do("SET", recordKey, opJSON)
	if err != nil {
		log.Printf("error Redis SET: %s", err.Error())
		return err
	}

	_, err = conn.Do("SADD", config.RedisStatusSets[op.Status], recordKey)
	if err != nil {
		log.Printf("error Redis SADD: %s", err.Error())
		return err
	}

	return nil
}

// Attention, this operation scans everything that is present
// Older/processed should be moved to another place otherwise performance will degrade (athough O(n) still)
func FindBridgeOperationByMessageID(msgID string) (*types.BridgeOperation, error) {
	for status := range config.RedisStatusSets {
		op, err := findBridgeOperationByFieldStringValue("MessageID", msgID, status)
		if err != nil {
			return nil, err
		}
		if op != nil {
			return op, nil
		}
	}
	return nil, nil
}

func findBridgeOperationByFieldStringValue(field, value string, status string) (*types.BridgeOperation, error) {
	conn := pool.Get()
	defer conn.Close()

	if field == "" || value == "" {
		return nil, errors.New("empty search field name or value")
	}

	// scan every operation present in Redis
	var cursor int64

	for {
		values, err := redis.Values(conn.Do("SSCAN", config.RedisStatusSets[status], cursor))
		if err != nil {
			return nil, err
		}

		var opKeys []string
		values, err = redis.Scan(values, &cursor, &opKeys)
		if err != nil {
			return nil, err
		}

		for _, key := range opKeys {
			op, err := redis.Bytes(conn.Do("GET", key))
			if err != nil && !errors.Is(err, redis.ErrNil) {
				log.Printf("error Redis GET: %s", err.Error())
				return nil, err
			}

			var opStruct types.BridgeOperation
			err = json.Unmarshal([]byte(op), &opStruct)
			if err != nil {
				return nil, err
			}
			if field == "MessageID" && opStruct.MessageID == value {
				return &opStruct, nil
			}
			if field == "Status" && opStruct.Status == value {
				return &opStruct, nil
			}
		}

		if cursor == 0 {
			break
		}
	}

	return nil, nil
}

func FindAllBridgeOperationsByStatus(status string) ([]*types.BridgeOperation, error) {
	conn := pool.Get()
	defer conn.Close()

	if _, ok := config.RedisStatusSets[status]; !ok {
		return nil, errors.New("redis key not found for status")
	}

	ops := make([]*types.BridgeOperation, 0)

	// scan every operation present in Redis
	var cursor int64

	for {
		values, err := redis.Values(conn.Do("SSCAN", config.RedisStatusSets[status], cursor))
		if err != nil {
			return nil, err
		}

		var opKeys []string
		values, err = redis.Scan(values, &cursor, &opKeys)
		if err != nil {
			return nil, err
		}

		for _, key := range opKeys {
			op, err := redis.Bytes(conn.Do("GET", key))
			if err != nil && !errors.Is(err, redis.ErrNil) {
				log.Printf("error Redis GET: %s", err.Error())
				return nil, err
			}

			var opStruct types.BridgeOperation
			err = json.Unmarshal([]byte(op), &opStruct)
			if err != nil {
				return nil, err
			}
			if opStruct.Status == status {
				ops = append(ops, &opStruct)
			}
		}

		if cursor == 0 {
			break
		}
	}

	return ops, nil
}

// RecordEvent appends a protocol event to the observability journal.
func RecordEvent(ev types.Event) error {
	conn := pool.Get()
	defer conn.Close()

	evJSON, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("cannot marshal event to JSON: %s", err.Error())
	}

	_, err = conn.Do("RPUSH", "bridgeevents", evJSON)
	if err != nil {
		log.Printf("error Redis RPUSH: %s", err.Error())
		return err
	}

	return nil
}

// Sink adapts the event journal to the bridge event interface.
type Sink struct{}

func (Sink) Emit(ev types.Event) {
	if err := RecordEvent(ev); err != nil {
		log.Printf("Cannot journal event %s: %s", ev.Name, err.Error())
	}
}
