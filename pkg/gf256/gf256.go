// Package gf256 implements arithmetic over GF(2^8), the finite field with
// 256 elements, using the reduction polynomial x^8 + x^4 + x^3 + x + 1
// (0x11B, the same field AES uses). Every byte value is a field element.
package gf256

import "errors"

// ErrZeroDivisor is returned when an inverse or division of/by the zero
// element is requested. Zero has no multiplicative inverse.
var ErrZeroDivisor = errors.New("gf256: zero has no multiplicative inverse")

// inverseTable maps every nonzero element to its multiplicative inverse.
// Built once at package init from exp/log tables over the generator 0x03.
var inverseTable [256]byte

func init() {
	var exp [255]byte
	var log [256]int

	x := byte(1)
	for i := 0; i < 255; i++ {
		exp[i] = x
		log[x] = i
		x = Mul(x, 0x03)
	}
	for a := 1; a < 256; a++ {
		inverseTable[a] = exp[(255-log[a])%255]
	}
}

// Add returns a + b. Addition in a characteristic-2 field is XOR, so every
// element is its own additive inverse.
func Add(a, b byte) byte {
	return a ^ b
}

// Sub returns a - b, which is identical to Add in GF(2^8).
func Sub(a, b byte) byte {
	return a ^ b
}

// Mul multiplies a and b using carry-less Russian peasant multiplication,
// folding overflow back into the field with 0x1B on every shift out of the
// top bit. Returns 0 when either operand is 0.
func Mul(a, b byte) byte {
	var product byte
	for b > 0 {
		if b&1 != 0 {
			product ^= a
		}
		high := a & 0x80
		a <<= 1
		if high != 0 {
			a ^= 0x1b
		}
		b >>= 1
	}
	return product
}

// Inverse returns the multiplicative inverse of a, or ErrZeroDivisor for
// the zero element.
func Inverse(a byte) (byte, error) {
	if a == 0 {
		return 0, ErrZeroDivisor
	}
	return inverseTable[a], nil
}

// Div returns a / b. Division by zero fails with ErrZeroDivisor; 0 / b is 0
// for any nonzero b.
func Div(a, b byte) (byte, error) {
	inv, err := Inverse(b)
	if err != nil {
		return 0, err
	}
	if a == 0 {
		return 0, nil
	}
	return Mul(a, inv), nil
}

// inverseEuclid computes the inverse of a with the extended Euclidean
// algorithm over GF(2) polynomials modulo 0x11B. It is an independent
// construction kept as a cross-check against the table; the two must agree
// for every nonzero element.
func inverseEuclid(a byte) byte {
	if a == 0 {
		return 0
	}
	r0, r1 := uint32(0x11b), uint32(a)
	t0, t1 := uint32(0), uint32(1)
	for r1 != 0 {
		q, r := polyDivmod(r0, r1)
		r0, r1 = r1, r
		t0, t1 = t1, t0^polyMul(q, t1)
	}
	// r0 is gcd(a, 0x11B) = 1 since 0x11B is irreducible; t0 is the inverse
	// up to reduction.
	_, t := polyDivmod(t0, 0x11b)
	return byte(t)
}

// polyDegree returns the degree of the GF(2) polynomial p, or -1 for the
// zero polynomial.
func polyDegree(p uint32) int {
	d := -1
	for i := 0; i < 32; i++ {
		if p&(1<<uint(i)) != 0 {
			d = i
		}
	}
	return d
}

// polyMul multiplies two GF(2) polynomials without reduction.
func polyMul(a, b uint32) uint32 {
	var product uint32
	for i := 0; b != 0; i++ {
		if b&1 != 0 {
			product ^= a << uint(i)
		}
		b >>= 1
	}
	return product
}

// polyDivmod divides GF(2) polynomial a by b, returning quotient and
// remainder.
func polyDivmod(a, b uint32) (q, r uint32) {
	db := polyDegree(b)
	for polyDegree(a) >= db {
		shift := uint(polyDegree(a) - db)
		q |= 1 << shift
		a ^= b << shift
	}
	return q, a
}
