// Package hwp5 imports legacy HWP 5.x binary documents. The format is a
// CFB (OLE2) container holding a FileHeader stream, a DocInfo stream with
// tagged style records, and one BodyText/SectionN stream per section with
// UTF-16LE paragraph text. Import only; documents are saved as HWPX.
package hwp5
