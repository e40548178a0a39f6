package obfs

// Transform XORs each byte of data with key[i%len(key)] and returns the
// result in a new slice. Applying it twice with the same key is the identity.
func Transform(data, key []byte) ([]byte, error) {
	if len(key) == 0 {
		return nil, ErrEmptyKey
	}
	out := make([]byte, len(data))
	for i, b := range data {
		out[i] = b ^ key[i%len(key)]
	}
	return out, nil
}

// XORObfuscator is the repeating-key XOR used by the standard protocol.
type XORObfuscator struct {
	key []byte
}

func NewXORObfuscator(key []byte) (Obfuscator, error) {
	if len(key) == 0 {
		return nil, ErrEmptyKey
	}
	k := make([]byte, len(key))
	copy(k, key)
	return &XORObfuscator{key: k}, nil
}

func (o *XORObfuscator) Name() string {
	return "standard"
}

func (o *XORObfuscator) ID() uint8 {
	return AlgorithmStandard
}

func (o *XORObfuscator) Wrap(data []byte) ([]byte, error) {
	return Transform(data, o.key)
}

func (o *XORObfuscator) Unwrap(data []byte) ([]byte, error) {
	return Transform(data, o.key)
}
