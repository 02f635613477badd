// Package bbs implements the Blum-Blum-Shub pseudorandom bit generator:
// x(i+1) = x(i)^2 mod M, with M the product of two safe primes, emitting
// the least-significant bits of each state. Any position i in the bit
// stream can be reached in O(log i) time by computing
// x(0)^(2^i mod c) mod M, where c is the Carmichael function of M.
// See bbs_test.go on how to use the library.
package bbs
