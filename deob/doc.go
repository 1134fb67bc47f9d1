// Package deob removes runtime Base64 string decoding from method bodies.
//
// Obfuscators commonly hide string literals behind a call sequence such as
//
//	call   System.Text.Encoding::get_UTF8
//	ldstr  "SGVsbG8="
//	call   System.Convert::FromBase64String
//	callvirt System.Text.Encoding::GetString
//
// The [Scanner] finds both orderings of that sequence, decodes the literal
// statically and, when the result looks like text, collapses the four slots
// into a single ldstr followed by three nops. The instruction count of a
// body never changes.
package deob
