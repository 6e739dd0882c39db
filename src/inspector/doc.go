/*
Package inspector maps an embedded document store onto a tabular inspection protocol.

Three components do the work, each opening and closing its own database handle per call:

  - Enumerator lists the databases present in the data directory.
  - IndexBuilder lists the display identifiers of every document in one database.
  - Translator turns a free-text query holding one quoted display identifier into a
    two-column key/value ResultTable.

Every component returns (T, error) where error is an *Error carrying a Kind. Adapter
applies the one policy that decides which kinds are shown to a client as an empty result
and which are surfaced; see Recoverable.

A display identifier is the raw document id, or "<T>::id" when the document carries a
string "type" field T. See EncodeDisplayID for the escaping rules.
*/
package inspector
