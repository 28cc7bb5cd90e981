package email

const (
	subjectEnquiryReceiptFmt = "Your enquiry about %s"
	defaultEnquirySubject    = "this property"
)
