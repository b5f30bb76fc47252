package rv1805

// DecimalToBCD converts a value in 0..99 to BCD. Larger values produce garbage, so range check first.
func DecimalToBCD(dec uint8) uint8 {
	return dec + 6*(dec/10)
}

// BCDToDecimal converts a BCD byte back to its decimal value.
func BCDToDecimal(bcd uint8) uint8 {
	return bcd - 6*(bcd>>4)
}
