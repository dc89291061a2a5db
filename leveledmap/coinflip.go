package leveledmap

// FlipCoin simulates the coin flip deciding whether a key climbs one more
// layer after previousFlips earlier promotions. It is a pure function of
// the key's bytes, so the same key always produces the same flip sequence:
// the whole structure is deterministic and replayable.
//
// The digest is a single byte obtained by XOR-folding the key's raw
// representation; the flip result is bit previousFlips%8 of that byte.
// Example: key 5 has digest 0b101, so flip 0 is heads (promote to the
// second layer) and flip 1 is tails (stop at height 2).
func FlipCoin[K Key](key K, previousFlips int) bool {
	return digest(key)&(1<<(previousFlips%8)) != 0
}

// digest XOR-folds a key into one byte. Integer keys contribute the four
// bytes of their low 32 bits, string keys every byte.
func digest[K Key](key K) byte {
	switch k := any(key).(type) {
	case string:
		var d byte
		for i := 0; i < len(k); i++ {
			d ^= k[i]
		}
		return d
	case int:
		return foldUint32(uint32(k))
	case int8:
		return foldUint32(uint32(k))
	case int16:
		return foldUint32(uint32(k))
	case int32:
		return foldUint32(uint32(k))
	case int64:
		return foldUint32(uint32(k))
	case uint:
		return foldUint32(uint32(k))
	case uint8:
		return foldUint32(uint32(k))
	case uint16:
		return foldUint32(uint32(k))
	case uint32:
		return foldUint32(k)
	case uint64:
		return foldUint32(uint32(k))
	default:
		// Key admits no other type.
		return 0
	}
}

func foldUint32(v uint32) byte {
	return byte(v>>24) ^ byte(v>>16) ^ byte(v>>8) ^ byte(v)
}
