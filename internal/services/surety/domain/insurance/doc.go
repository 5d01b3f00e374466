// Package insurance owns registered flights, passengers and the policies
// bought against flights. Premiums are escrowed on purchase; crediting and
// withdrawal live in the payout package.
package insurance
