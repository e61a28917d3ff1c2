package logx

// NopSensitiveDataMasker пропускает данные без изменений. Используется в
// тестах и там, где в дампах нет секретов.
type NopSensitiveDataMasker struct{}

func (NopSensitiveDataMasker) Mask(input []byte) []byte {
	return input
}
