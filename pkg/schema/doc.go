// Package schema defines the input model of schemagraph: entity records as
// produced by the workspace extractor, and the decoders that read them.
//
// # Records
//
// An [EntityRecord] describes one database (entity) with its title, a
// [Partition] of attribute names into keys, timestamps and other fields, and
// a list of outgoing [Relation]s. Record fields are pointers or nil-able
// slices so that an absent key can be told apart from an empty value: a
// record with an empty title is valid, a record without a title is not.
//
// # Datasets
//
// [Decode] reads a whole dataset in one of three formats:
//
//   - [FormatJSON]: a JSON array of records (the extractor's native output)
//   - [FormatBSON]: a BSON document {databases: [...]}
//   - [FormatExtJSON]: the same document as MongoDB Extended JSON
//
// Elements that cannot be decoded do not fail the dataset. They are kept in
// place so that input indices stay stable, and [Validate] reports them.
package schema
