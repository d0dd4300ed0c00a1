package component

type AimGuideTag struct{}

var AimGuideTagComponent = NewComponent[AimGuideTag]()
