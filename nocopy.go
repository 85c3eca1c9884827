package lfchan

// noCopy embeds into every handle type (SPSCSender, SPSCReceiver,
// OneShotSender, OneShotReceiver) so go vet's copylocks check flags a
// handle passed or assigned by value instead of by pointer. It has no
// runtime effect; Lock/Unlock only exist to satisfy the vet check.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}
