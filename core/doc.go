/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

// Package core implements the PDF object model: the primitive data kinds
// that make up a PDF file (Name, String, Reference, Array, Dictionary), the
// Variant that unifies them, the indirect-object layer that gives objects
// identity within a document, and the byte-exact Writer that serializes
// them back out.
package core
