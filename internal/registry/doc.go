// Package registry maps step kinds, the values of a step's `type`
// discriminator, to the attributes a document of that kind must carry.
//
// The registry is populated at startup with the kinds compiled into the
// binary and consulted once per loaded step. It does not interpret the
// payload beyond presence and JSON type of the declared attributes; all
// other members are published untouched.
package registry
