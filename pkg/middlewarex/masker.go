package middlewarex

type sensitiveDataMasker interface {
	Mask(input []byte) []byte
}

func maskAndTrim(masker sensitiveDataMasker, dump []byte, maxLen int) string {
	dump = masker.Mask(dump)

	if maxLen > 0 && len(dump) > maxLen {
		dump = dump[:maxLen]
	}

	return string(dump)
}
